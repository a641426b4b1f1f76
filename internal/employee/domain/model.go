package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Employee is keyed by the human-readable employee code (e.g. MAI-0042), not a
// surrogate ID. The code is what badges, orders and payslips reference.
type Employee struct {
	Code string `gorm:"primaryKey;type:text"`

	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name      string     `gorm:"type:text;not null"`
	Role      string     `gorm:"type:text;not null"`
	Email     string     `gorm:"type:text;not null"`
	Phone     *string    `gorm:"type:text"`
	Address   *string    `gorm:"type:text"`
	BirthDate *time.Time `gorm:"type:date"`

	Salary float64 `gorm:"type:numeric(12,2);not null"`

	// Passkey is the 6-digit code typed at the canteen terminal. Unique across
	// all employees; generation retries until an unused value is found.
	Passkey string `gorm:"type:text;not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Employee) TableName() string { return "employees" }

var (
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidSalary       = errors.New("invalid_salary")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrCodeTaken           = errors.New("code_taken")
	ErrPasskeyExhausted    = errors.New("passkey_exhausted")
	ErrNotFound            = errors.New("not_found")
)
