package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Organization, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Organization, error)
	Update(ctx context.Context, db *gorm.DB, org *Organization) error

	// ReserveEmployeeNumber increments last_employee_number and returns the
	// reserved value. Must be called inside a transaction.
	ReserveEmployeeNumber(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
