package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Name string
	Tag  string
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, meal *Meal) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Meal, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Meal, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Meal, error)
	Update(ctx context.Context, db *gorm.DB, meal *Meal) error
	ReplaceIngredients(ctx context.Context, db *gorm.DB, mealID int64, links []MealIngredient) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
