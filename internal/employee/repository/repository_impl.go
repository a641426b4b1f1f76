package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/opencanteen/mensa/internal/employee/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, employee *domain.Employee) error {
	return db.WithContext(ctx).Create(employee).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Employee, error) {
	var employee domain.Employee
	err := db.WithContext(ctx).First(&employee, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Employee, error) {
	stmt := db.WithContext(ctx).Model(&domain.Employee{})

	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Role != "" {
		stmt = stmt.Where("LOWER(role) LIKE ?", "%"+strings.ToLower(filter.Role)+"%")
	}

	var employees []domain.Employee
	if err := stmt.Order("code ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, employee *domain.Employee) error {
	return db.WithContext(ctx).Save(employee).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, code string) error {
	return db.WithContext(ctx).Delete(&domain.Employee{}, "code = ?", code).Error
}

func (r *repo) PasskeyExists(ctx context.Context, db *gorm.DB, passkey string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("passkey = ?", passkey).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
