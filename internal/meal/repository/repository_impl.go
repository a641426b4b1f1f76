package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/opencanteen/mensa/internal/meal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, meal *domain.Meal) error {
	return db.WithContext(ctx).Create(meal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Meal, error) {
	var meal domain.Meal
	err := db.WithContext(ctx).
		Preload("Ingredients").
		First(&meal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meal, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var meals []domain.Meal
	if err := db.WithContext(ctx).Find(&meals, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Meal, error) {
	stmt := db.WithContext(ctx).Model(&domain.Meal{}).Preload("Ingredients")

	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Tag != "" {
		// Tags is a JSON array; a substring match on its serialized form keeps
		// the filter portable across postgres, mysql and sqlite.
		stmt = stmt.Where("LOWER(CAST(tags AS TEXT)) LIKE ?", "%"+strings.ToLower(filter.Tag)+"%")
	}

	var meals []domain.Meal
	if err := stmt.Order("name ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, meal *domain.Meal) error {
	return db.WithContext(ctx).Omit("Ingredients").Save(meal).Error
}

func (r *repo) ReplaceIngredients(ctx context.Context, db *gorm.DB, mealID int64, links []domain.MealIngredient) error {
	if err := db.WithContext(ctx).Delete(&domain.MealIngredient{}, "meal_id = ?", mealID).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&links).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Delete(&domain.MealIngredient{}, "meal_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.Meal{}, "id = ?", id).Error
}
