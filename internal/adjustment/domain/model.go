package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind tells whether an adjustment adds to or subtracts from gross pay.
const (
	KindAllowance = "allowance"
	KindDeduction = "deduction"
)

// SalaryAdjustment applies to every employee of the organization. Either a
// percentage of the base salary or a flat amount, never both.
type SalaryAdjustment struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	Label string       `gorm:"type:text;not null"`

	Percentage *float64 `gorm:"type:numeric(6,3)"`
	Amount     *float64 `gorm:"type:numeric(14,2)"`
	Kind       string   `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SalaryAdjustment) TableName() string { return "salary_adjustments" }

// IndividualSalaryAdjustment applies to one employee for one effective month.
type IndividualSalaryAdjustment struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	EmployeeCode string       `gorm:"column:employee_code;type:text;not null;index"`

	Label  string  `gorm:"type:text;not null"`
	Amount float64 `gorm:"type:numeric(14,2);not null"`
	Kind   string  `gorm:"type:text;not null"`

	// Month is the effective payroll month, "2006-01" form.
	Month string `gorm:"type:text;not null;index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (IndividualSalaryAdjustment) TableName() string { return "individual_salary_adjustments" }

var (
	ErrInvalidLabel    = errors.New("invalid_label")
	ErrInvalidValue    = errors.New("invalid_value")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidMonth    = errors.New("invalid_month")
	ErrInvalidEmployee = errors.New("invalid_employee")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type IndividualService interface {
	Create(ctx context.Context, req CreateIndividualRequest) (*IndividualResponse, error)
	List(ctx context.Context, req ListIndividualRequest) ([]IndividualResponse, error)
	Get(ctx context.Context, id string) (*IndividualResponse, error)
	Update(ctx context.Context, req UpdateIndividualRequest) (*IndividualResponse, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Label      string   `json:"label"`
	Percentage *float64 `json:"percentage"`
	Amount     *float64 `json:"amount"`
	Kind       string   `json:"kind"`
}

type UpdateRequest struct {
	ID         string
	Label      *string  `json:"label"`
	Percentage *float64 `json:"percentage"`
	Amount     *float64 `json:"amount"`
	Kind       *string  `json:"kind"`
}

type Response struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Percentage *float64  `json:"percentage,omitempty"`
	Amount     *float64  `json:"amount,omitempty"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateIndividualRequest struct {
	EmployeeCode string  `json:"employee_code"`
	Label        string  `json:"label"`
	Amount       float64 `json:"amount"`
	Kind         string  `json:"kind"`
	Month        string  `json:"month"`
}

type ListIndividualRequest struct {
	EmployeeCode string
	Month        string
}

type UpdateIndividualRequest struct {
	ID     string
	Label  *string  `json:"label"`
	Amount *float64 `json:"amount"`
	Kind   *string  `json:"kind"`
	Month  *string  `json:"month"`
}

type IndividualResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Label        string    `json:"label"`
	Amount       float64   `json:"amount"`
	Kind         string    `json:"kind"`
	Month        string    `json:"month"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
