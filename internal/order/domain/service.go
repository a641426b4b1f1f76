package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	MarkServed(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error

	// ServingCounts aggregates how many servings of each meal are due per
	// meal type on the given date.
	ServingCounts(ctx context.Context, date time.Time) ([]ServingCountRow, error)
}

type CreateRequest struct {
	EmployeeCode   string   `json:"employee_code"`
	OrganizationID string   `json:"organization_id"`
	MealTypeID     string   `json:"meal_type_id"`
	Items          []string `json:"items"`
	OrderDate      string   `json:"order_date"`
}

type ListRequest struct {
	EmployeeCode string
	Date         *time.Time
	Served       *bool
}

type Response struct {
	ID             string    `json:"id"`
	EmployeeCode   string    `json:"employee_code"`
	OrganizationID string    `json:"organization_id"`
	MealTypeID     string    `json:"meal_type_id"`
	Items          []string  `json:"items"`
	OrderDate      string    `json:"order_date"`
	Price          float64   `json:"price"`
	Served         bool      `json:"served"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ServingCountRow struct {
	MealTypeID   string `json:"meal_type_id"`
	MealTypeName string `json:"meal_type_name"`
	MealID       string `json:"meal_id"`
	MealName     string `json:"meal_name"`
	Count        int    `json:"count"`
}
