package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// PayeTaxSlab is one progressive income tax bracket. UpperBound nil means the
// slab is open-ended. OrderIndex fixes the evaluation order.
type PayeTaxSlab struct {
	ID snowflake.ID `gorm:"primaryKey"`

	LowerBound float64  `gorm:"type:numeric(14,2);not null"`
	UpperBound *float64 `gorm:"type:numeric(14,2)"`
	Rate       float64  `gorm:"type:numeric(6,3);not null"`
	OrderIndex int      `gorm:"not null"`
}

func (PayeTaxSlab) TableName() string { return "paye_tax_slabs" }

var (
	ErrInvalidSlab = errors.New("invalid_slab")
)

type Slab struct {
	LowerBound float64  `json:"lower_bound"`
	UpperBound *float64 `json:"upper_bound"`
	Rate       float64  `json:"rate"`
}

type Response struct {
	ID         string   `json:"id"`
	LowerBound float64  `json:"lower_bound"`
	UpperBound *float64 `json:"upper_bound,omitempty"`
	Rate       float64  `json:"rate"`
	OrderIndex int      `json:"order_index"`
}

type Service interface {
	List(ctx context.Context) ([]Response, error)

	// ReplaceAll swaps the whole slab table for the given set atomically.
	ReplaceAll(ctx context.Context, slabs []Slab) ([]Response, error)

	// Deduction computes the progressive PAYE deduction for a monthly salary.
	Deduction(ctx context.Context, salary float64) (float64, error)
}
