package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)

	// NextEmployeeCode reserves and returns the next sequential employee code
	// for the organization.
	NextEmployeeCode(ctx context.Context, id string) (string, error)
}

type CreateRequest struct {
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	ContactEmail *string `json:"contact_email"`
}

type UpdateRequest struct {
	ID           string
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	ContactEmail *string `json:"contact_email"`
}

type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Address      *string   `json:"address,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	CodePrefix   string    `json:"code_prefix"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
