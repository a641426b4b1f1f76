package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/opencanteen/mensa/internal/config"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	mealrepository "github.com/opencanteen/mensa/internal/meal/repository"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	mealtypeservice "github.com/opencanteen/mensa/internal/mealtype/service"
	"github.com/opencanteen/mensa/internal/schedule/domain"
	"github.com/opencanteen/mensa/internal/schedule/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type scheduleFixture struct {
	svc        domain.Service
	db         *gorm.DB
	mealTypeID string
	mealID     string
}

func setupScheduleService(t *testing.T) scheduleFixture {
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

	err = db.AutoMigrate(
		&mealtypedomain.MealType{},
		&mealdomain.Meal{},
		&mealdomain.MealIngredient{},
		&domain.ScheduledMeal{},
		&domain.ScheduledMealItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	mealTypeSvc := mealtypeservice.New(mealtypeservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
	mealType, err := mealTypeSvc.Create(context.Background(), mealtypedomain.CreateRequest{
		Name:     "lunch",
		StartsAt: "11:30",
		EndsAt:   "14:00",
	})
	if err != nil {
		t.Fatalf("create meal type: %v", err)
	}

	meal := mealdomain.Meal{
		ID:    node.Generate(),
		Name:  "rice and curry",
		Price: 450,
	}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("create meal: %v", err)
	}

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Cfg:         config.Config{CanteenTimezone: "UTC"},
		GenID:       node,
		Repo:        repository.Provide(),
		MealRepo:    mealrepository.Provide(),
		MealTypeSvc: mealTypeSvc,
	})
	return scheduleFixture{
		svc:        svc,
		db:         db,
		mealTypeID: mealType.ID,
		mealID:     meal.ID.String(),
	}
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	f := setupScheduleService(t)
	ctx := context.Background()

	req := domain.CreateRequest{
		Date:       "2026-09-01",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{f.mealID},
	}
	if _, err := f.svc.Create(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, req); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCreateSameDateDifferentMealType(t *testing.T) {
	f := setupScheduleService(t)
	ctx := context.Background()

	mealTypeSvc := mealtypeservice.New(mealtypeservice.Params{
		DB:    f.db,
		Log:   zap.NewNop(),
		GenID: mustNode(t),
	})
	dinner, err := mealTypeSvc.Create(ctx, mealtypedomain.CreateRequest{
		Name:     "dinner",
		StartsAt: "18:00",
		EndsAt:   "21:00",
	})
	if err != nil {
		t.Fatalf("create dinner: %v", err)
	}

	if _, err := f.svc.Create(ctx, domain.CreateRequest{
		Date:       "2026-09-01",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{f.mealID},
	}); err != nil {
		t.Fatalf("lunch slot: %v", err)
	}
	if _, err := f.svc.Create(ctx, domain.CreateRequest{
		Date:       "2026-09-01",
		MealTypeID: dinner.ID,
		MealIDs:    []string{f.mealID},
	}); err != nil {
		t.Fatalf("dinner slot: %v", err)
	}
}

func TestCreateRejectsUnknownMeal(t *testing.T) {
	f := setupScheduleService(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Date:       "2026-09-01",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{"123456789"},
	})
	if !errors.Is(err, domain.ErrInvalidMeals) {
		t.Fatalf("expected ErrInvalidMeals, got %v", err)
	}
}

func TestUpdateReplacesMeals(t *testing.T) {
	f := setupScheduleService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Date:       "2026-09-01",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{f.mealID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	node := mustNode(t)
	other := mealdomain.Meal{ID: node.Generate(), Name: "string hoppers", Price: 380}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("create meal: %v", err)
	}

	updated, err := f.svc.Update(ctx, domain.UpdateRequest{
		ID:      created.ID,
		MealIDs: []string{other.ID.String()},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.MealIDs) != 1 || updated.MealIDs[0] != other.ID.String() {
		t.Fatalf("unexpected meal ids: %v", updated.MealIDs)
	}
}

func TestCleanupExpiredHonorsCutoff(t *testing.T) {
	f := setupScheduleService(t)
	ctx := context.Background()

	old, err := f.svc.Create(ctx, domain.CreateRequest{
		Date:       "2026-08-01",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{f.mealID},
	})
	if err != nil {
		t.Fatalf("create old: %v", err)
	}
	recent, err := f.svc.Create(ctx, domain.CreateRequest{
		Date:       "2026-08-25",
		MealTypeID: f.mealTypeID,
		MealIDs:    []string{f.mealID},
	})
	if err != nil {
		t.Fatalf("create recent: %v", err)
	}

	cutoff := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	deleted, err := f.svc.CleanupExpired(ctx, cutoff)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted schedule, got %d", deleted)
	}

	if _, err := f.svc.Get(ctx, old.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected old schedule gone, got %v", err)
	}
	if _, err := f.svc.Get(ctx, recent.ID); err != nil {
		t.Fatalf("recent schedule should survive: %v", err)
	}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}
