package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Budget struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name   string  `gorm:"type:text;not null"`
	Amount float64 `gorm:"type:numeric(14,2);not null"`

	// Period is the budget month, "2006-01" form.
	Period string  `gorm:"type:text;not null"`
	Note   *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Budget) TableName() string { return "budgets" }

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Period         string  `json:"period"`
	Note           *string `json:"note"`
}

type ListRequest struct {
	Period string
}

type UpdateRequest struct {
	ID     string
	Name   *string  `json:"name"`
	Amount *float64 `json:"amount"`
	Period *string  `json:"period"`
	Note   *string  `json:"note"`
}

type Response struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Amount         float64   `json:"amount"`
	Period         string    `json:"period"`
	Note           *string   `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
