package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opencanteen/mensa/internal/paye/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPayeService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.PayeTaxSlab{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return New(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func ptr(v float64) *float64 { return &v }

func standardSlabs() []domain.Slab {
	return []domain.Slab{
		{LowerBound: 0, UpperBound: ptr(100000.0), Rate: 0},
		{LowerBound: 100000, UpperBound: ptr(150000.0), Rate: 6},
		{LowerBound: 150000, UpperBound: nil, Rate: 12},
	}
}

func TestReplaceAllKeepsOrder(t *testing.T) {
	svc := setupPayeService(t)
	ctx := context.Background()

	replaced, err := svc.ReplaceAll(ctx, standardSlabs())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(replaced) != 3 {
		t.Fatalf("expected 3 slabs, got %d", len(replaced))
	}
	for i, slab := range replaced {
		if slab.OrderIndex != i {
			t.Fatalf("slab %d has order index %d", i, slab.OrderIndex)
		}
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 listed slabs, got %d", len(listed))
	}
}

func TestReplaceAllSwapsPreviousTable(t *testing.T) {
	svc := setupPayeService(t)
	ctx := context.Background()

	if _, err := svc.ReplaceAll(ctx, standardSlabs()); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	replaced, err := svc.ReplaceAll(ctx, []domain.Slab{
		{LowerBound: 0, UpperBound: nil, Rate: 5},
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if len(replaced) != 1 {
		t.Fatalf("expected 1 slab after swap, got %d", len(replaced))
	}
}

func TestReplaceAllRejectsBrokenBrackets(t *testing.T) {
	svc := setupPayeService(t)
	ctx := context.Background()

	cases := map[string][]domain.Slab{
		"unsorted": {
			{LowerBound: 100000, UpperBound: ptr(150000.0), Rate: 6},
			{LowerBound: 0, UpperBound: ptr(100000.0), Rate: 0},
		},
		"gap": {
			{LowerBound: 0, UpperBound: ptr(100000.0), Rate: 0},
			{LowerBound: 120000, UpperBound: nil, Rate: 6},
		},
		"open slab in the middle": {
			{LowerBound: 0, UpperBound: nil, Rate: 0},
			{LowerBound: 100000, UpperBound: nil, Rate: 6},
		},
		"negative rate": {
			{LowerBound: 0, UpperBound: nil, Rate: -1},
		},
	}
	for name, slabs := range cases {
		if _, err := svc.ReplaceAll(ctx, slabs); err != domain.ErrInvalidSlab {
			t.Fatalf("%s: expected ErrInvalidSlab, got %v", name, err)
		}
	}
}

func TestDeductionIsProgressive(t *testing.T) {
	svc := setupPayeService(t)
	ctx := context.Background()

	if _, err := svc.ReplaceAll(ctx, standardSlabs()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	cases := []struct {
		salary float64
		want   float64
	}{
		{salary: 80000, want: 0},
		{salary: 100000, want: 0},
		// 50_000 taxed at 6%
		{salary: 150000, want: 3000},
		// 50_000 at 6% plus 50_000 at 12%
		{salary: 200000, want: 9000},
		{salary: 0, want: 0},
		{salary: -10, want: 0},
	}
	for _, tc := range cases {
		got, err := svc.Deduction(ctx, tc.salary)
		if err != nil {
			t.Fatalf("deduction(%v): %v", tc.salary, err)
		}
		if got != tc.want {
			t.Fatalf("deduction(%v) = %v, want %v", tc.salary, got, tc.want)
		}
	}
}

func TestDeductionWithoutSlabs(t *testing.T) {
	svc := setupPayeService(t)

	got, err := svc.Deduction(context.Background(), 250000)
	if err != nil {
		t.Fatalf("deduction: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected zero deduction with no slabs, got %v", got)
	}
}
