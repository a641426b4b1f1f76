package repository

import (
	"context"
	"errors"

	"github.com/opencanteen/mensa/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})

	if filter.EmployeeCode != "" {
		stmt = stmt.Where("employee_code = ?", filter.EmployeeCode)
	}
	if filter.Date != nil {
		stmt = stmt.Where("order_date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.Served != nil {
		stmt = stmt.Where("served = ?", *filter.Served)
	}

	var orders []domain.Order
	if err := stmt.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Save(order).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id).Error
}
