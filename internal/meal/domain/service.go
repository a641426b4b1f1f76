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
}

type IngredientLink struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type CreateRequest struct {
	Name             string            `json:"name"`
	NameTranslations map[string]string `json:"name_translations"`
	Price            float64           `json:"price"`
	Tags             []string          `json:"tags"`
	ImageURL         *string           `json:"image_url"`
	Ingredients      []IngredientLink  `json:"ingredients"`
}

type ListRequest struct {
	Name string
	Tag  string
}

type UpdateRequest struct {
	ID               string
	Name             *string           `json:"name"`
	NameTranslations map[string]string `json:"name_translations"`
	Price            *float64          `json:"price"`
	Tags             []string          `json:"tags"`
	ImageURL         *string           `json:"image_url"`
	Ingredients      []IngredientLink  `json:"ingredients"`
}

type Response struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	NameTranslations map[string]string `json:"name_translations,omitempty"`
	Price            float64           `json:"price"`
	Tags             []string          `json:"tags,omitempty"`
	ImageURL         *string           `json:"image_url,omitempty"`
	Ingredients      []IngredientLink  `json:"ingredients,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
