package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Order keeps its meal lines as "mealId:count" encoded strings rather than a
// join table. The denormalization is inherited from the terminal protocol:
// the canteen device submits exactly that string list.
type Order struct {
	ID snowflake.ID `gorm:"primaryKey"`

	EmployeeCode string       `gorm:"column:employee_code;type:text;not null;index"`
	OrgID        snowflake.ID `gorm:"column:org_id;not null;index"`
	MealTypeID   snowflake.ID `gorm:"column:meal_type_id;not null;index"`

	Items datatypes.JSON `gorm:"type:jsonb;not null"`

	OrderDate time.Time `gorm:"column:order_date;type:date;not null;index"`
	Price     float64   `gorm:"type:numeric(10,2);not null"`
	Served    bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

var (
	ErrInvalidEmployee     = errors.New("invalid_employee")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidMealType     = errors.New("invalid_meal_type")
	ErrInvalidItems        = errors.New("invalid_items")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)

// Item is one decoded "mealId:count" line.
type Item struct {
	MealID snowflake.ID
	Count  int
}

// ParseItem decodes a single "mealId:count" string.
func ParseItem(raw string) (Item, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return Item{}, ErrInvalidItems
	}
	mealID, err := snowflake.ParseString(strings.TrimSpace(parts[0]))
	if err != nil {
		return Item{}, ErrInvalidItems
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || count <= 0 {
		return Item{}, ErrInvalidItems
	}
	return Item{MealID: mealID, Count: count}, nil
}

// Encode renders the item back to its wire form.
func (i Item) Encode() string {
	return fmt.Sprintf("%s:%d", i.MealID.String(), i.Count)
}
