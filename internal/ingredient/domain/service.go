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

	// PriceVariance reports the unit-price spread per priority tier.
	PriceVariance(ctx context.Context) ([]PriceVarianceRow, error)
}

type CreateRequest struct {
	Name         string  `json:"name"`
	PricePerUnit float64 `json:"price_per_unit"`
	Quantity     float64 `json:"quantity"`
	Priority     int     `json:"priority"`
}

type ListRequest struct {
	Name string
}

type UpdateRequest struct {
	ID           string
	Name         *string  `json:"name"`
	PricePerUnit *float64 `json:"price_per_unit"`
	Quantity     *float64 `json:"quantity"`
	Priority     *int     `json:"priority"`
}

type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PricePerUnit float64   `json:"price_per_unit"`
	Quantity     float64   `json:"quantity"`
	Priority     int       `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PriceVarianceRow struct {
	Priority int     `json:"priority"`
	Count    int     `json:"count"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
}
