package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MealType is a serving slot: breakfast, lunch, dinner, tea.
type MealType struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null;uniqueIndex"`

	// Serving window, wall-clock strings like "11:30".
	StartsAt string `gorm:"type:text;not null"`
	EndsAt   string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MealType) TableName() string { return "meal_types" }

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidWindow = errors.New("invalid_window")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNameTaken     = errors.New("name_taken")
	ErrNotFound      = errors.New("not_found")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

type UpdateRequest struct {
	ID       string
	Name     *string `json:"name"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartsAt  string    `json:"starts_at"`
	EndsAt    string    `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
