package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/config"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	"github.com/opencanteen/mensa/internal/schedule/domain"
	"github.com/opencanteen/mensa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Repo        domain.Repository
	MealRepo    mealdomain.Repository
	MealTypeSvc mealtypedomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	mealRepo    mealdomain.Repository
	mealTypeSvc mealtypedomain.Service
	genID       *snowflake.Node
	location    *time.Location
}

func New(p Params) domain.Service {
	location, err := time.LoadLocation(p.Cfg.CanteenTimezone)
	if err != nil {
		p.Log.Warn("invalid canteen timezone, falling back to UTC",
			zap.String("timezone", p.Cfg.CanteenTimezone),
			zap.Error(err),
		)
		location = time.UTC
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("schedule.service"),
		repo:        p.Repo,
		mealRepo:    p.MealRepo,
		mealTypeSvc: p.MealTypeSvc,
		genID:       p.GenID,
		location:    location,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	date, err := s.normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	mealTypeID, err := snowflake.ParseString(strings.TrimSpace(req.MealTypeID))
	if err != nil {
		return nil, domain.ErrInvalidMealType
	}
	if _, err := s.mealTypeSvc.Get(ctx, mealTypeID.String()); err != nil {
		return nil, domain.ErrInvalidMealType
	}

	scheduleID := s.genID.Generate()
	items, err := s.parseMealIDs(ctx, scheduleID, req.MealIDs)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBySlot(ctx, s.db, date, mealTypeID.Int64())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlotTaken
	}

	now := time.Now().UTC()
	schedule := &domain.ScheduledMeal{
		ID:         scheduleID,
		Date:       date,
		MealTypeID: mealTypeID,
		Meals:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, s.db, schedule); err != nil {
		// Lost the race against a concurrent create for the same slot. The
		// duplicate error propagates so the caller sees a conflict instead of
		// the plain bad-request the pre-insert check produces.
		if db.IsDuplicateKeyErr(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	resp := toResponse(schedule)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	schedules, err := s.repo.FindRange(ctx, s.db, req.From, req.To)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(schedules))
	for _, schedule := range schedules {
		resp = append(resp, toResponse(&schedule))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	schedule, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(schedule)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	schedule, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	items, err := s.parseMealIDs(ctx, schedule.ID, req.MealIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.ReplaceMeals(ctx, tx, schedule.ID.Int64(), items)
	})
	if err != nil {
		return nil, err
	}

	schedule.Meals = items
	schedule.UpdatedAt = time.Now().UTC()
	resp := toResponse(schedule)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	schedule, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, schedule.ID.Int64())
}

func (s *Service) CleanupExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, s.db, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("expired schedules removed",
		zap.Int64("deleted", deleted),
		zap.String("cutoff", cutoff.Format(dateLayout)),
	)
	return deleted, nil
}

// normalizeDate parses a plain date and anchors it at midnight in the canteen
// timezone, so the same calendar day always lands on the same stored value.
func (s *Service) normalizeDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), s.location)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.location), nil
}

func (s *Service) parseMealIDs(ctx context.Context, scheduleID snowflake.ID, mealIDs []string) ([]domain.ScheduledMealItem, error) {
	if len(mealIDs) == 0 {
		return nil, domain.ErrInvalidMeals
	}

	ids := make([]int64, 0, len(mealIDs))
	items := make([]domain.ScheduledMealItem, 0, len(mealIDs))
	for _, raw := range mealIDs {
		mealID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.ErrInvalidMeals
		}
		ids = append(ids, mealID.Int64())
		items = append(items, domain.ScheduledMealItem{
			ScheduleID: scheduleID,
			MealID:     mealID,
		})
	}

	meals, err := s.mealRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	if len(meals) != len(ids) {
		return nil, domain.ErrInvalidMeals
	}
	return items, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.ScheduledMeal, error) {
	scheduleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	schedule, err := s.repo.FindByID(ctx, s.db, scheduleID.Int64())
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, domain.ErrNotFound
	}
	return schedule, nil
}

func toResponse(schedule *domain.ScheduledMeal) domain.Response {
	mealIDs := make([]string, 0, len(schedule.Meals))
	for _, item := range schedule.Meals {
		mealIDs = append(mealIDs, item.MealID.String())
	}
	return domain.Response{
		ID:         schedule.ID.String(),
		Date:       schedule.Date.Format(dateLayout),
		MealTypeID: schedule.MealTypeID.String(),
		MealIDs:    mealIDs,
		CreatedAt:  schedule.CreatedAt,
		UpdatedAt:  schedule.UpdatedAt,
	}
}
