package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Ingredient struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null;uniqueIndex"`

	PricePerUnit float64 `gorm:"column:price_per_unit;type:numeric(10,2);not null"`
	Quantity     float64 `gorm:"type:numeric(12,3);not null"`

	// Priority tier: 1 = high-priority staples, larger numbers = lower tiers.
	Priority int `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Ingredient) TableName() string { return "ingredients" }

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNameTaken       = errors.New("name_taken")
	ErrNotFound        = errors.New("not_found")
)
