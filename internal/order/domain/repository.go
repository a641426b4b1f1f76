package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeCode string
	Date         *time.Time
	Served       *bool
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
