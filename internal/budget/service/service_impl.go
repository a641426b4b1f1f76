package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/budget/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

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
		log:   p.Log.Named("budget.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	period := strings.TrimSpace(req.Period)
	if !periodPattern.MatchString(period) {
		return nil, domain.ErrInvalidPeriod
	}
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	now := time.Now().UTC()
	budget := &domain.Budget{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Amount:    req.Amount,
		Period:    period,
		Note:      trimPtr(req.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, err
	}
	resp := toResponse(budget)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Budget{})
	if period := strings.TrimSpace(req.Period); period != "" {
		stmt = stmt.Where("period = ?", period)
	}

	var budgets []domain.Budget
	if err := stmt.Order("period DESC, name ASC").Find(&budgets).Error; err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(budgets))
	for _, budget := range budgets {
		resp = append(resp, toResponse(&budget))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	budget, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(budget)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	budget, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		budget.Name = name
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		budget.Amount = *req.Amount
	}
	if req.Period != nil {
		period := strings.TrimSpace(*req.Period)
		if !periodPattern.MatchString(period) {
			return nil, domain.ErrInvalidPeriod
		}
		budget.Period = period
	}
	if req.Note != nil {
		budget.Note = trimPtr(req.Note)
	}

	budget.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(budget).Error; err != nil {
		return nil, err
	}
	resp := toResponse(budget)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	budget, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(budget).Error
}

func (s *Service) find(ctx context.Context, id string) (*domain.Budget, error) {
	budgetID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var budget domain.Budget
	err = s.db.WithContext(ctx).First(&budget, "id = ?", budgetID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func toResponse(budget *domain.Budget) domain.Response {
	return domain.Response{
		ID:             budget.ID.String(),
		OrganizationID: budget.OrgID.String(),
		Name:           budget.Name,
		Amount:         budget.Amount,
		Period:         budget.Period,
		Note:           budget.Note,
		CreatedAt:      budget.CreatedAt,
		UpdatedAt:      budget.UpdatedAt,
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
