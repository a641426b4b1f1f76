package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/opencanteen/mensa/internal/ingredient/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, ingredient *domain.Ingredient) error {
	return db.WithContext(ctx).Create(ingredient).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := db.WithContext(ctx).First(&ingredient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Ingredient, error) {
	stmt := db.WithContext(ctx).Model(&domain.Ingredient{})

	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}

	var ingredients []domain.Ingredient
	if err := stmt.Order("priority ASC, name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ingredient *domain.Ingredient) error {
	return db.WithContext(ctx).Save(ingredient).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Ingredient{}, "id = ?", id).Error
}
