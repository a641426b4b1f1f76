package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/adjustment/domain"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func validKind(kind string) bool {
	return kind == domain.KindAllowance || kind == domain.KindDeduction
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages the org-wide salary adjustments.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("adjustment.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}
	if !validKind(req.Kind) {
		return nil, domain.ErrInvalidKind
	}
	if err := checkValue(req.Percentage, req.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	adjustment := &domain.SalaryAdjustment{
		ID:         s.genID.Generate(),
		Label:      label,
		Percentage: req.Percentage,
		Amount:     req.Amount,
		Kind:       req.Kind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		return nil, err
	}
	resp := toResponse(adjustment)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	var adjustments []domain.SalaryAdjustment
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(adjustments))
	for _, adjustment := range adjustments {
		resp = append(resp, toResponse(&adjustment))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	adjustment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(adjustment)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	adjustment, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, domain.ErrInvalidLabel
		}
		adjustment.Label = label
	}
	if req.Kind != nil {
		if !validKind(*req.Kind) {
			return nil, domain.ErrInvalidKind
		}
		adjustment.Kind = *req.Kind
	}
	if req.Percentage != nil || req.Amount != nil {
		if err := checkValue(req.Percentage, req.Amount); err != nil {
			return nil, err
		}
		adjustment.Percentage = req.Percentage
		adjustment.Amount = req.Amount
	}

	adjustment.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(adjustment).Error; err != nil {
		return nil, err
	}
	resp := toResponse(adjustment)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	adjustment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(adjustment).Error
}

func (s *Service) find(ctx context.Context, id string) (*domain.SalaryAdjustment, error) {
	adjustmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var adjustment domain.SalaryAdjustment
	err = s.db.WithContext(ctx).First(&adjustment, "id = ?", adjustmentID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// checkValue enforces exactly one of percentage or flat amount, positive.
func checkValue(percentage, amount *float64) error {
	if (percentage == nil) == (amount == nil) {
		return domain.ErrInvalidValue
	}
	if percentage != nil && (*percentage <= 0 || *percentage > 100) {
		return domain.ErrInvalidValue
	}
	if amount != nil && *amount <= 0 {
		return domain.ErrInvalidValue
	}
	return nil
}

func toResponse(adjustment *domain.SalaryAdjustment) domain.Response {
	return domain.Response{
		ID:         adjustment.ID.String(),
		Label:      adjustment.Label,
		Percentage: adjustment.Percentage,
		Amount:     adjustment.Amount,
		Kind:       adjustment.Kind,
		CreatedAt:  adjustment.CreatedAt,
		UpdatedAt:  adjustment.UpdatedAt,
	}
}

// IndividualService manages per-employee adjustments scoped to a month.
type IndividualService struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	employeeSvc employeedomain.Service
}

type IndividualParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	EmployeeSvc employeedomain.Service
}

func NewIndividual(p IndividualParams) domain.IndividualService {
	return &IndividualService{
		db:          p.DB,
		log:         p.Log.Named("adjustment.individual"),
		genID:       p.GenID,
		employeeSvc: p.EmployeeSvc,
	}
}

func (s *IndividualService) Create(ctx context.Context, req domain.CreateIndividualRequest) (*domain.IndividualResponse, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidValue
	}
	if !validKind(req.Kind) {
		return nil, domain.ErrInvalidKind
	}
	month := strings.TrimSpace(req.Month)
	if !monthPattern.MatchString(month) {
		return nil, domain.ErrInvalidMonth
	}

	code := strings.TrimSpace(req.EmployeeCode)
	if _, err := s.employeeSvc.Get(ctx, code); err != nil {
		if errors.Is(err, employeedomain.ErrNotFound) {
			return nil, domain.ErrInvalidEmployee
		}
		return nil, err
	}

	now := time.Now().UTC()
	adjustment := &domain.IndividualSalaryAdjustment{
		ID:           s.genID.Generate(),
		EmployeeCode: code,
		Label:        label,
		Amount:       req.Amount,
		Kind:         req.Kind,
		Month:        month,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		return nil, err
	}
	resp := toIndividualResponse(adjustment)
	return &resp, nil
}

func (s *IndividualService) List(ctx context.Context, req domain.ListIndividualRequest) ([]domain.IndividualResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.IndividualSalaryAdjustment{})
	if code := strings.TrimSpace(req.EmployeeCode); code != "" {
		stmt = stmt.Where("employee_code = ?", code)
	}
	if month := strings.TrimSpace(req.Month); month != "" {
		stmt = stmt.Where("month = ?", month)
	}

	var adjustments []domain.IndividualSalaryAdjustment
	if err := stmt.Order("month DESC, created_at ASC").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	resp := make([]domain.IndividualResponse, 0, len(adjustments))
	for _, adjustment := range adjustments {
		resp = append(resp, toIndividualResponse(&adjustment))
	}
	return resp, nil
}

func (s *IndividualService) Get(ctx context.Context, id string) (*domain.IndividualResponse, error) {
	adjustment, err := s.findIndividual(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toIndividualResponse(adjustment)
	return &resp, nil
}

func (s *IndividualService) Update(ctx context.Context, req domain.UpdateIndividualRequest) (*domain.IndividualResponse, error) {
	adjustment, err := s.findIndividual(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, domain.ErrInvalidLabel
		}
		adjustment.Label = label
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, domain.ErrInvalidValue
		}
		adjustment.Amount = *req.Amount
	}
	if req.Kind != nil {
		if !validKind(*req.Kind) {
			return nil, domain.ErrInvalidKind
		}
		adjustment.Kind = *req.Kind
	}
	if req.Month != nil {
		month := strings.TrimSpace(*req.Month)
		if !monthPattern.MatchString(month) {
			return nil, domain.ErrInvalidMonth
		}
		adjustment.Month = month
	}

	adjustment.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(adjustment).Error; err != nil {
		return nil, err
	}
	resp := toIndividualResponse(adjustment)
	return &resp, nil
}

func (s *IndividualService) Delete(ctx context.Context, id string) error {
	adjustment, err := s.findIndividual(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(adjustment).Error
}

func (s *IndividualService) findIndividual(ctx context.Context, id string) (*domain.IndividualSalaryAdjustment, error) {
	adjustmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var adjustment domain.IndividualSalaryAdjustment
	err = s.db.WithContext(ctx).First(&adjustment, "id = ?", adjustmentID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

func toIndividualResponse(adjustment *domain.IndividualSalaryAdjustment) domain.IndividualResponse {
	return domain.IndividualResponse{
		ID:           adjustment.ID.String(),
		EmployeeCode: adjustment.EmployeeCode,
		Label:        adjustment.Label,
		Amount:       adjustment.Amount,
		Kind:         adjustment.Kind,
		Month:        adjustment.Month,
		CreatedAt:    adjustment.CreatedAt,
		UpdatedAt:    adjustment.UpdatedAt,
	}
}
