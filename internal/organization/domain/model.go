package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Organization struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
	Slug string       `gorm:"type:text;not null;uniqueIndex"`

	Address      *string `gorm:"type:text"`
	ContactEmail *string `gorm:"type:text"`

	// CodePrefix plus LastEmployeeNumber drive the sequential, human-readable
	// employee codes (e.g. MAI-0042) handed out at registration and bulk import.
	CodePrefix         string `gorm:"type:text;not null"`
	LastEmployeeNumber int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Organization) TableName() string { return "organizations" }

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
