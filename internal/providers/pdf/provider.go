package pdf

import (
	"context"
	"io"
)

type PayslipData struct {
	OrgName      string
	EmployeeCode string
	EmployeeName string
	Role         string
	Month        string
	GeneratedAt  string

	BaseSalary string
	Lines      []PayslipLine

	GrossPay      string
	PayeDeduction string
	EmployeeEPF   string
	NetPay        string

	EmployerEPF string
	EmployerETF string
}

type PayslipLine struct {
	Label  string
	Kind   string
	Amount string
}

type Provider interface {
	GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	return nil, nil
}
