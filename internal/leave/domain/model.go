package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveApplication struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	EmployeeCode string       `gorm:"column:employee_code;type:text;not null;index"`

	FromDate time.Time `gorm:"type:date;not null"`
	ToDate   time.Time `gorm:"type:date;not null"`

	Kind   string `gorm:"type:text;not null"`
	Reason string `gorm:"type:text"`
	Status string `gorm:"type:text;not null;default:pending"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

var (
	ErrInvalidEmployee = errors.New("invalid_employee")
	ErrInvalidDates    = errors.New("invalid_dates")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrNotPending      = errors.New("not_pending")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) (*Response, error)
	Reject(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	EmployeeCode string `json:"employee_code"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
	Kind         string `json:"kind"`
	Reason       string `json:"reason"`
}

type ListRequest struct {
	EmployeeCode string
	Status       string
}

type UpdateRequest struct {
	ID       string
	FromDate *string `json:"from_date"`
	ToDate   *string `json:"to_date"`
	Kind     *string `json:"kind"`
	Reason   *string `json:"reason"`
}

type Response struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FromDate     string    `json:"from_date"`
	ToDate       string    `json:"to_date"`
	Kind         string    `json:"kind"`
	Reason       string    `json:"reason,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
