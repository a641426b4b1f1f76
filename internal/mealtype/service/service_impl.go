package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/mealtype/domain"
	"github.com/opencanteen/mensa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("mealtype.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	startsAt := strings.TrimSpace(req.StartsAt)
	endsAt := strings.TrimSpace(req.EndsAt)
	if !clockPattern.MatchString(startsAt) || !clockPattern.MatchString(endsAt) {
		return nil, domain.ErrInvalidWindow
	}

	now := time.Now().UTC()
	mealType := &domain.MealType{
		ID:        s.genID.Generate(),
		Name:      name,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(mealType).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	resp := toResponse(mealType)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	var mealTypes []domain.MealType
	if err := s.db.WithContext(ctx).Order("starts_at ASC").Find(&mealTypes).Error; err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(mealTypes))
	for _, mealType := range mealTypes {
		resp = append(resp, toResponse(&mealType))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	mealType, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(mealType)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	mealType, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		mealType.Name = name
	}
	if req.StartsAt != nil {
		if !clockPattern.MatchString(strings.TrimSpace(*req.StartsAt)) {
			return nil, domain.ErrInvalidWindow
		}
		mealType.StartsAt = strings.TrimSpace(*req.StartsAt)
	}
	if req.EndsAt != nil {
		if !clockPattern.MatchString(strings.TrimSpace(*req.EndsAt)) {
			return nil, domain.ErrInvalidWindow
		}
		mealType.EndsAt = strings.TrimSpace(*req.EndsAt)
	}

	mealType.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(mealType).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	resp := toResponse(mealType)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	mealType, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(mealType).Error
}

func (s *Service) find(ctx context.Context, id string) (*domain.MealType, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var mealType domain.MealType
	err = s.db.WithContext(ctx).First(&mealType, "id = ?", parsed.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &mealType, nil
}

func toResponse(mealType *domain.MealType) domain.Response {
	return domain.Response{
		ID:        mealType.ID.String(),
		Name:      mealType.Name,
		StartsAt:  mealType.StartsAt,
		EndsAt:    mealType.EndsAt,
		CreatedAt: mealType.CreatedAt,
		UpdatedAt: mealType.UpdatedAt,
	}
}
