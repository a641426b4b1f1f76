package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Meal struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null;uniqueIndex"`

	// NameTranslations maps a language code to the display name
	// (e.g. {"si": "...", "ta": "..."}).
	NameTranslations datatypes.JSONMap `gorm:"type:jsonb"`

	Price    float64        `gorm:"type:numeric(10,2);not null"`
	Tags     datatypes.JSON `gorm:"type:jsonb"`
	ImageURL *string        `gorm:"column:image_url;type:text"`

	Ingredients []MealIngredient `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Meal) TableName() string { return "meals" }

// MealIngredient is the join row carrying the quantity of an ingredient used
// by one serving of a meal.
type MealIngredient struct {
	MealID       snowflake.ID `gorm:"column:meal_id;primaryKey"`
	IngredientID snowflake.ID `gorm:"column:ingredient_id;primaryKey"`
	Quantity     float64      `gorm:"type:numeric(10,3);not null"`
}

func (MealIngredient) TableName() string { return "meal_ingredients" }

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidIngredient = errors.New("invalid_ingredient")
	ErrNameTaken         = errors.New("name_taken")
	ErrNotFound          = errors.New("not_found")
)
