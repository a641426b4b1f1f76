package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opencanteen/mensa/internal/schedule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, schedule *domain.ScheduledMeal) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ScheduledMeal, error) {
	var schedule domain.ScheduledMeal
	err := db.WithContext(ctx).Preload("Meals").First(&schedule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *repo) FindBySlot(ctx context.Context, db *gorm.DB, date time.Time, mealTypeID int64) (*domain.ScheduledMeal, error) {
	var schedule domain.ScheduledMeal
	err := db.WithContext(ctx).
		Preload("Meals").
		First(&schedule, "date = ? AND meal_type_id = ?", date, mealTypeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *repo) FindRange(ctx context.Context, db *gorm.DB, from, to *time.Time) ([]domain.ScheduledMeal, error) {
	stmt := db.WithContext(ctx).Model(&domain.ScheduledMeal{}).Preload("Meals")

	if from != nil {
		stmt = stmt.Where("date >= ?", *from)
	}
	if to != nil {
		stmt = stmt.Where("date <= ?", *to)
	}

	var schedules []domain.ScheduledMeal
	if err := stmt.Order("date ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *repo) ReplaceMeals(ctx context.Context, db *gorm.DB, scheduleID int64, items []domain.ScheduledMealItem) error {
	if err := db.WithContext(ctx).Delete(&domain.ScheduledMealItem{}, "schedule_id = ?", scheduleID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Delete(&domain.ScheduledMealItem{}, "schedule_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.ScheduledMeal{}, "id = ?", id).Error
}

func (r *repo) DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	err := db.WithContext(ctx).Exec(
		`DELETE FROM scheduled_meal_items WHERE schedule_id IN (SELECT id FROM scheduled_meals WHERE date < ?)`,
		cutoff,
	).Error
	if err != nil {
		return 0, err
	}

	res := db.WithContext(ctx).Delete(&domain.ScheduledMeal{}, "date < ?", cutoff)
	return res.RowsAffected, res.Error
}
