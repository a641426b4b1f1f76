package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Name string
	Role string
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, employee *Employee) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Employee, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Employee, error)
	Update(ctx context.Context, db *gorm.DB, employee *Employee) error
	Delete(ctx context.Context, db *gorm.DB, code string) error
	PasskeyExists(ctx context.Context, db *gorm.DB, passkey string) (bool, error)
}
