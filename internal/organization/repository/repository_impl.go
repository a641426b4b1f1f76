package repository

import (
	"context"
	"errors"

	"github.com/opencanteen/mensa/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Create(org).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).First(&org, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Save(org).Error
}

func (r *repo) ReserveEmployeeNumber(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", id).
		UpdateColumn("last_employee_number", gorm.Expr("last_employee_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}

	var reserved int64
	err := db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", id).
		Select("last_employee_number").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}
	return reserved, nil
}
