package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Name string
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, ingredient *Ingredient) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Ingredient, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Ingredient, error)
	Update(ctx context.Context, db *gorm.DB, ingredient *Ingredient) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
