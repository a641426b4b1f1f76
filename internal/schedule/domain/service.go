package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes schedules dated before the cutoff and returns the
	// number of rows deleted. Safe to re-run: the delete is by natural key.
	CleanupExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type CreateRequest struct {
	Date       string   `json:"date"`
	MealTypeID string   `json:"meal_type_id"`
	MealIDs    []string `json:"meal_ids"`
}

type ListRequest struct {
	From *time.Time
	To   *time.Time
}

type UpdateRequest struct {
	ID      string
	MealIDs []string `json:"meal_ids"`
}

type Response struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	MealTypeID string    `json:"meal_type_id"`
	MealIDs    []string  `json:"meal_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
