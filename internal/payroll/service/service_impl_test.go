package service

import (
	"context"
	"math"
	"testing"

	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
	"github.com/opencanteen/mensa/internal/config"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
	"github.com/opencanteen/mensa/internal/payroll/domain"
	"github.com/opencanteen/mensa/internal/providers/pdf"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type employeeStub struct {
	employee *employeedomain.Response
}

func (e *employeeStub) Create(context.Context, employeedomain.CreateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (e *employeeStub) List(context.Context, employeedomain.ListRequest) ([]employeedomain.Response, error) {
	return nil, nil
}

func (e *employeeStub) Get(_ context.Context, code string) (*employeedomain.Response, error) {
	if e.employee == nil || e.employee.Code != code {
		return nil, employeedomain.ErrNotFound
	}
	return e.employee, nil
}

func (e *employeeStub) Update(context.Context, employeedomain.UpdateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (e *employeeStub) Delete(context.Context, string) error { return nil }

type adjustmentStub struct {
	items []adjustmentdomain.Response
}

func (a *adjustmentStub) Create(context.Context, adjustmentdomain.CreateRequest) (*adjustmentdomain.Response, error) {
	return nil, nil
}

func (a *adjustmentStub) List(context.Context) ([]adjustmentdomain.Response, error) {
	return a.items, nil
}

func (a *adjustmentStub) Get(context.Context, string) (*adjustmentdomain.Response, error) {
	return nil, nil
}

func (a *adjustmentStub) Update(context.Context, adjustmentdomain.UpdateRequest) (*adjustmentdomain.Response, error) {
	return nil, nil
}

func (a *adjustmentStub) Delete(context.Context, string) error { return nil }

type individualStub struct {
	items []adjustmentdomain.IndividualResponse
}

func (i *individualStub) Create(context.Context, adjustmentdomain.CreateIndividualRequest) (*adjustmentdomain.IndividualResponse, error) {
	return nil, nil
}

func (i *individualStub) List(_ context.Context, req adjustmentdomain.ListIndividualRequest) ([]adjustmentdomain.IndividualResponse, error) {
	out := make([]adjustmentdomain.IndividualResponse, 0, len(i.items))
	for _, item := range i.items {
		if item.EmployeeCode == req.EmployeeCode && item.Month == req.Month {
			out = append(out, item)
		}
	}
	return out, nil
}

func (i *individualStub) Get(context.Context, string) (*adjustmentdomain.IndividualResponse, error) {
	return nil, nil
}

func (i *individualStub) Update(context.Context, adjustmentdomain.UpdateIndividualRequest) (*adjustmentdomain.IndividualResponse, error) {
	return nil, nil
}

func (i *individualStub) Delete(context.Context, string) error { return nil }

// flatPaye deducts a flat fraction of gross pay.
type flatPaye float64

func (p flatPaye) List(context.Context) ([]payedomain.Response, error) { return nil, nil }

func (p flatPaye) ReplaceAll(context.Context, []payedomain.Slab) ([]payedomain.Response, error) {
	return nil, nil
}

func (p flatPaye) Deduction(_ context.Context, salary float64) (float64, error) {
	return salary * float64(p), nil
}

func floatPtr(v float64) *float64 { return &v }

func setupPayrollService(t *testing.T, employee *employeedomain.Response, org []adjustmentdomain.Response, individual []adjustmentdomain.IndividualResponse, payeRate float64) domain.Service {
	t.Helper()
	return New(Params{
		Log:           zap.NewNop(),
		EmployeeSvc:   &employeeStub{employee: employee},
		AdjustmentSvc: &adjustmentStub{items: org},
		IndividualSvc: &individualStub{items: individual},
		PayeSvc:       flatPaye(payeRate),
		Policy:        &config.PayrollPolicyHolder{},
		PDF:           &pdf.NoOpProvider{},
	})
}

func TestComputeAppliesAdjustmentsAndStatutories(t *testing.T) {
	employee := &employeedomain.Response{
		Code:   "ACM-0001",
		Name:   "Alice",
		Role:   "staff",
		Salary: 100000,
	}
	org := []adjustmentdomain.Response{
		{Label: "cost of living", Percentage: floatPtr(10), Kind: adjustmentdomain.KindAllowance},
		{Label: "welfare", Amount: floatPtr(2000), Kind: adjustmentdomain.KindDeduction},
	}
	individual := []adjustmentdomain.IndividualResponse{
		{EmployeeCode: "ACM-0001", Label: "overtime", Amount: 12000, Kind: adjustmentdomain.KindAllowance, Month: "2026-08"},
		{EmployeeCode: "ACM-0001", Label: "overtime", Amount: 99999, Kind: adjustmentdomain.KindAllowance, Month: "2026-07"},
	}

	svc := setupPayrollService(t, employee, org, individual, 0.05)
	slip, err := svc.Compute(context.Background(), "ACM-0001", "2026-08")
	require.NoError(t, err)

	// 100_000 + 10% - 2_000 + 12_000
	require.InDelta(t, 120000, slip.GrossPay, 0.001)
	require.Len(t, slip.Lines, 3)
	require.True(t, slip.Lines[2].Individual)

	require.InDelta(t, 6000, slip.PayeDeduction, 0.001)
	require.InDelta(t, 120000*0.08, slip.EmployeeEPF, 0.001)
	require.InDelta(t, 120000*0.12, slip.EmployerEPF, 0.001)
	require.InDelta(t, 120000*0.03, slip.EmployerETF, 0.001)
	require.InDelta(t, 120000-6000-120000*0.08, slip.NetPay, 0.001)
}

func TestComputeClampsGrossAtZero(t *testing.T) {
	employee := &employeedomain.Response{Code: "ACM-0001", Salary: 1000}
	org := []adjustmentdomain.Response{
		{Label: "penalty", Amount: floatPtr(5000), Kind: adjustmentdomain.KindDeduction},
	}

	svc := setupPayrollService(t, employee, org, nil, 0.10)
	slip, err := svc.Compute(context.Background(), "ACM-0001", "2026-08")
	require.NoError(t, err)
	require.Zero(t, slip.GrossPay)
	require.Zero(t, slip.NetPay)
}

func TestComputeRejectsBadInputs(t *testing.T) {
	employee := &employeedomain.Response{Code: "ACM-0001", Salary: 1000}
	svc := setupPayrollService(t, employee, nil, nil, 0)

	_, err := svc.Compute(context.Background(), "ACM-0001", "August 2026")
	require.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = svc.Compute(context.Background(), "ACM-0404", "2026-08")
	require.ErrorIs(t, err, domain.ErrEmployeeMissing)
}

func TestComputeIgnoresOtherMonths(t *testing.T) {
	employee := &employeedomain.Response{Code: "ACM-0001", Salary: 50000}
	individual := []adjustmentdomain.IndividualResponse{
		{EmployeeCode: "ACM-0001", Label: "bonus", Amount: 10000, Kind: adjustmentdomain.KindAllowance, Month: "2026-01"},
	}

	svc := setupPayrollService(t, employee, nil, individual, 0)
	slip, err := svc.Compute(context.Background(), "ACM-0001", "2026-08")
	require.NoError(t, err)
	require.Empty(t, slip.Lines)
	require.True(t, math.Abs(slip.GrossPay-50000) < 0.001)
}
