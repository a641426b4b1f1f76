package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, code string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, code string) error
}

type CreateRequest struct {
	// Code is optional; when empty the next sequential code is drawn from the
	// organization counter.
	Code           string     `json:"code"`
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone"`
	Address        *string    `json:"address"`
	BirthDate      *time.Time `json:"birth_date"`
	Salary         float64    `json:"salary"`
}

type ListRequest struct {
	Name string
	Role string
}

type UpdateRequest struct {
	Code      string
	Name      *string    `json:"name"`
	Role      *string    `json:"role"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Address   *string    `json:"address"`
	BirthDate *time.Time `json:"birth_date"`
	Salary    *float64   `json:"salary"`
}

type Response struct {
	Code           string     `json:"code"`
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	Address        *string    `json:"address,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Salary         float64    `json:"salary"`
	Passkey        string     `json:"passkey"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
