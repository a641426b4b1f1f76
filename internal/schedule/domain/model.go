package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ScheduledMeal pins the meal offering for one (date, meal type) slot. The
// composite unique index is the authoritative guard; the service's
// check-then-insert only exists to hand back the friendlier error.
type ScheduledMeal struct {
	ID snowflake.ID `gorm:"primaryKey"`

	Date       time.Time    `gorm:"type:date;not null;uniqueIndex:ux_schedule_date_meal_type,priority:1"`
	MealTypeID snowflake.ID `gorm:"column:meal_type_id;not null;uniqueIndex:ux_schedule_date_meal_type,priority:2"`

	Meals []ScheduledMealItem `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ScheduledMeal) TableName() string { return "scheduled_meals" }

type ScheduledMealItem struct {
	ScheduleID snowflake.ID `gorm:"column:schedule_id;primaryKey"`
	MealID     snowflake.ID `gorm:"column:meal_id;primaryKey"`
}

func (ScheduledMealItem) TableName() string { return "scheduled_meal_items" }

var (
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidMealType = errors.New("invalid_meal_type")
	ErrInvalidMeals    = errors.New("invalid_meals")
	ErrInvalidID       = errors.New("invalid_id")
	ErrSlotTaken       = errors.New("slot_taken")
	ErrNotFound        = errors.New("not_found")
)
