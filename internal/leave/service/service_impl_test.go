package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"github.com/opencanteen/mensa/internal/leave/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rosterStub struct{}

func (rosterStub) Create(context.Context, employeedomain.CreateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (rosterStub) List(context.Context, employeedomain.ListRequest) ([]employeedomain.Response, error) {
	return nil, nil
}

func (rosterStub) Get(_ context.Context, code string) (*employeedomain.Response, error) {
	if code != "ACM-0001" {
		return nil, employeedomain.ErrNotFound
	}
	return &employeedomain.Response{Code: code}, nil
}

func (rosterStub) Update(context.Context, employeedomain.UpdateRequest) (*employeedomain.Response, error) {
	return nil, nil
}

func (rosterStub) Delete(context.Context, string) error { return nil }

func setupLeaveService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.LeaveApplication{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node, EmployeeSvc: rosterStub{}})
}

func validLeave() domain.CreateRequest {
	return domain.CreateRequest{
		EmployeeCode: "ACM-0001",
		FromDate:     "2026-09-10",
		ToDate:       "2026-09-12",
		Kind:         "annual",
		Reason:       "family trip",
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc := setupLeaveService(t)

	created, err := svc.Create(context.Background(), validLeave())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, created.Status)
}

func TestCreateValidation(t *testing.T) {
	svc := setupLeaveService(t)
	ctx := context.Background()

	req := validLeave()
	req.EmployeeCode = "ACM-0404"
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidEmployee)

	req = validLeave()
	req.ToDate = "2026-09-09"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidDates)

	req = validLeave()
	req.Kind = "gardening"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestApproveAndRejectOnlyFromPending(t *testing.T) {
	svc := setupLeaveService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validLeave())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, approved.Status)

	_, err = svc.Reject(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotPending)
	_, err = svc.Approve(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestListFiltersByStatusAndEmployee(t *testing.T) {
	svc := setupLeaveService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validLeave())
	require.NoError(t, err)

	second := validLeave()
	second.FromDate = "2026-10-01"
	second.ToDate = "2026-10-02"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	pending, err := svc.List(ctx, domain.ListRequest{Status: domain.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	mine, err := svc.List(ctx, domain.ListRequest{EmployeeCode: "ACM-0001"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
}
