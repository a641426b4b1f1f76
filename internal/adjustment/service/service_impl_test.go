package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opencanteen/mensa/internal/adjustment/domain"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rosterStub struct {
	codes map[string]struct{}
}

func (r *rosterStub) Create(context.Context, employeedomain.CreateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (r *rosterStub) List(context.Context, employeedomain.ListRequest) ([]employeedomain.Response, error) {
	return nil, nil
}

func (r *rosterStub) Get(_ context.Context, code string) (*employeedomain.Response, error) {
	if _, ok := r.codes[code]; !ok {
		return nil, employeedomain.ErrNotFound
	}
	return &employeedomain.Response{Code: code}, nil
}

func (r *rosterStub) Update(context.Context, employeedomain.UpdateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (r *rosterStub) Delete(context.Context, string) error { return nil }

func setupAdjustmentServices(t *testing.T) (domain.Service, domain.IndividualService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.SalaryAdjustment{}, &domain.IndividualSalaryAdjustment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	individual := NewIndividual(IndividualParams{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		EmployeeSvc: &rosterStub{codes: map[string]struct{}{"ACM-0001": {}}},
	})
	return svc, individual
}

func adj(v float64) *float64 { return &v }

func TestCreateRequiresExactlyOneValue(t *testing.T) {
	svc, _ := setupAdjustmentServices(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Label: "x", Kind: domain.KindAllowance})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Label:      "x",
		Kind:       domain.KindAllowance,
		Percentage: adj(10),
		Amount:     adj(500),
	})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Label:      "cost of living",
		Kind:       domain.KindAllowance,
		Percentage: adj(10),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Percentage)
	require.Nil(t, created.Amount)
}

func TestCreateRejectsOutOfRangeValues(t *testing.T) {
	svc, _ := setupAdjustmentServices(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Label: "x", Kind: domain.KindAllowance, Percentage: adj(0)})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.Create(ctx, domain.CreateRequest{Label: "x", Kind: domain.KindAllowance, Percentage: adj(101)})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.Create(ctx, domain.CreateRequest{Label: "x", Kind: domain.KindAllowance, Amount: adj(-5)})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.Create(ctx, domain.CreateRequest{Label: "x", Kind: "bonus", Amount: adj(100)})
	require.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestIndividualCreateValidatesEmployeeAndMonth(t *testing.T) {
	_, individual := setupAdjustmentServices(t)
	ctx := context.Background()

	_, err := individual.Create(ctx, domain.CreateIndividualRequest{
		EmployeeCode: "ACM-0404",
		Label:        "overtime",
		Amount:       5000,
		Kind:         domain.KindAllowance,
		Month:        "2026-08",
	})
	require.ErrorIs(t, err, domain.ErrInvalidEmployee)

	_, err = individual.Create(ctx, domain.CreateIndividualRequest{
		EmployeeCode: "ACM-0001",
		Label:        "overtime",
		Amount:       5000,
		Kind:         domain.KindAllowance,
		Month:        "August",
	})
	require.ErrorIs(t, err, domain.ErrInvalidMonth)

	created, err := individual.Create(ctx, domain.CreateIndividualRequest{
		EmployeeCode: "ACM-0001",
		Label:        "overtime",
		Amount:       5000,
		Kind:         domain.KindAllowance,
		Month:        "2026-08",
	})
	require.NoError(t, err)
	require.Equal(t, "ACM-0001", created.EmployeeCode)
}

func TestIndividualListFilters(t *testing.T) {
	_, individual := setupAdjustmentServices(t)
	ctx := context.Background()

	months := []string{"2026-07", "2026-08", "2026-08"}
	for i, month := range months {
		_, err := individual.Create(ctx, domain.CreateIndividualRequest{
			EmployeeCode: "ACM-0001",
			Label:        fmt.Sprintf("line %d", i),
			Amount:       1000,
			Kind:         domain.KindAllowance,
			Month:        month,
		})
		require.NoError(t, err)
	}

	august, err := individual.List(ctx, domain.ListIndividualRequest{
		EmployeeCode: "ACM-0001",
		Month:        "2026-08",
	})
	require.NoError(t, err)
	require.Len(t, august, 2)

	all, err := individual.List(ctx, domain.ListIndividualRequest{EmployeeCode: "ACM-0001"})
	require.NoError(t, err)
	require.Len(t, all, 3)
}
