package domain

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidMonth    = errors.New("invalid_month")
	ErrEmployeeMissing = errors.New("employee_missing")
)

// Payslip is the computed pay statement for one employee and one month.
type Payslip struct {
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
	Month        string `json:"month"`

	BaseSalary float64       `json:"base_salary"`
	Lines      []PayslipLine `json:"lines"`

	GrossPay      float64 `json:"gross_pay"`
	PayeDeduction float64 `json:"paye_deduction"`
	EmployeeEPF   float64 `json:"employee_epf"`
	NetPay        float64 `json:"net_pay"`

	// Employer-side contributions, reported but not deducted.
	EmployerEPF float64 `json:"employer_epf"`
	EmployerETF float64 `json:"employer_etf"`
}

// PayslipLine is one adjustment applied on top of the base salary. Amount is
// positive; Kind tells which direction it moves gross pay.
type PayslipLine struct {
	Label      string  `json:"label"`
	Kind       string  `json:"kind"`
	Amount     float64 `json:"amount"`
	Individual bool    `json:"individual"`
}

type Service interface {
	Compute(ctx context.Context, employeeCode, month string) (*Payslip, error)
	RenderPDF(ctx context.Context, employeeCode, month string) (io.Reader, error)
}
