package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
	"github.com/opencanteen/mensa/internal/config"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
	"github.com/opencanteen/mensa/internal/payroll/domain"
	"github.com/opencanteen/mensa/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Params struct {
	fx.In

	Log           *zap.Logger
	EmployeeSvc   employeedomain.Service
	AdjustmentSvc adjustmentdomain.Service
	IndividualSvc adjustmentdomain.IndividualService
	PayeSvc       payedomain.Service
	Policy        *config.PayrollPolicyHolder
	PDF           pdf.Provider
}

type Service struct {
	log           *zap.Logger
	employeeSvc   employeedomain.Service
	adjustmentSvc adjustmentdomain.Service
	individualSvc adjustmentdomain.IndividualService
	payeSvc       payedomain.Service
	policy        *config.PayrollPolicyHolder
	pdf           pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("payroll.service"),
		employeeSvc:   p.EmployeeSvc,
		adjustmentSvc: p.AdjustmentSvc,
		individualSvc: p.IndividualSvc,
		payeSvc:       p.PayeSvc,
		policy:        p.Policy,
		pdf:           p.PDF,
	}
}

func (s *Service) Compute(ctx context.Context, employeeCode, month string) (*domain.Payslip, error) {
	month = strings.TrimSpace(month)
	if !monthPattern.MatchString(month) {
		return nil, domain.ErrInvalidMonth
	}

	employee, err := s.employeeSvc.Get(ctx, strings.TrimSpace(employeeCode))
	if err != nil {
		if errors.Is(err, employeedomain.ErrNotFound) {
			return nil, domain.ErrEmployeeMissing
		}
		return nil, err
	}

	payslip := &domain.Payslip{
		EmployeeCode: employee.Code,
		EmployeeName: employee.Name,
		Role:         employee.Role,
		Month:        month,
		BaseSalary:   employee.Salary,
	}

	orgAdjustments, err := s.adjustmentSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, adjustment := range orgAdjustments {
		amount := 0.0
		switch {
		case adjustment.Percentage != nil:
			amount = employee.Salary * *adjustment.Percentage / 100
		case adjustment.Amount != nil:
			amount = *adjustment.Amount
		}
		payslip.Lines = append(payslip.Lines, domain.PayslipLine{
			Label:  adjustment.Label,
			Kind:   adjustment.Kind,
			Amount: amount,
		})
	}

	individual, err := s.individualSvc.List(ctx, adjustmentdomain.ListIndividualRequest{
		EmployeeCode: employee.Code,
		Month:        month,
	})
	if err != nil {
		return nil, err
	}
	for _, adjustment := range individual {
		payslip.Lines = append(payslip.Lines, domain.PayslipLine{
			Label:      adjustment.Label,
			Kind:       adjustment.Kind,
			Amount:     adjustment.Amount,
			Individual: true,
		})
	}

	gross := employee.Salary
	for _, line := range payslip.Lines {
		if line.Kind == adjustmentdomain.KindDeduction {
			gross -= line.Amount
		} else {
			gross += line.Amount
		}
	}
	if gross < 0 {
		gross = 0
	}
	payslip.GrossPay = gross

	deduction, err := s.payeSvc.Deduction(ctx, gross)
	if err != nil {
		return nil, err
	}
	payslip.PayeDeduction = deduction

	policy := s.policy.Current()
	payslip.EmployeeEPF = gross * policy.EmployeeEPFRate
	payslip.EmployerEPF = gross * policy.EmployerEPFRate
	payslip.EmployerETF = gross * policy.EmployerETFRate
	payslip.NetPay = gross - deduction - payslip.EmployeeEPF

	return payslip, nil
}

func (s *Service) RenderPDF(ctx context.Context, employeeCode, month string) (io.Reader, error) {
	payslip, err := s.Compute(ctx, employeeCode, month)
	if err != nil {
		return nil, err
	}

	data := pdf.PayslipData{
		OrgName:       "Mensa Canteen",
		EmployeeCode:  payslip.EmployeeCode,
		EmployeeName:  payslip.EmployeeName,
		Role:          payslip.Role,
		Month:         payslip.Month,
		GeneratedAt:   time.Now().UTC().Format("2006-01-02"),
		BaseSalary:    money(payslip.BaseSalary),
		GrossPay:      money(payslip.GrossPay),
		PayeDeduction: money(payslip.PayeDeduction),
		EmployeeEPF:   money(payslip.EmployeeEPF),
		NetPay:        money(payslip.NetPay),
		EmployerEPF:   money(payslip.EmployerEPF),
		EmployerETF:   money(payslip.EmployerETF),
	}
	for _, line := range payslip.Lines {
		data.Lines = append(data.Lines, pdf.PayslipLine{
			Label:  line.Label,
			Kind:   line.Kind,
			Amount: money(line.Amount),
		})
	}

	return s.pdf.GeneratePayslip(ctx, data)
}

func money(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
