package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *ScheduledMeal) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*ScheduledMeal, error)
	FindBySlot(ctx context.Context, db *gorm.DB, date time.Time, mealTypeID int64) (*ScheduledMeal, error)
	FindRange(ctx context.Context, db *gorm.DB, from, to *time.Time) ([]ScheduledMeal, error)
	ReplaceMeals(ctx context.Context, db *gorm.DB, scheduleID int64, items []ScheduledMealItem) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
