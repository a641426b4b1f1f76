package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"github.com/opencanteen/mensa/internal/leave/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var leaveKinds = map[string]struct{}{
	"annual":   {},
	"casual":   {},
	"medical":  {},
	"unpaid":   {},
	"maternal": {},
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	EmployeeSvc employeedomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	employeeSvc employeedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("leave.service"),
		genID:       p.GenID,
		employeeSvc: p.EmployeeSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	if _, err := s.employeeSvc.Get(ctx, code); err != nil {
		if errors.Is(err, employeedomain.ErrNotFound) {
			return nil, domain.ErrInvalidEmployee
		}
		return nil, err
	}

	from, to, err := parseRange(req.FromDate, req.ToDate)
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if _, ok := leaveKinds[kind]; !ok {
		return nil, domain.ErrInvalidKind
	}

	now := time.Now().UTC()
	application := &domain.LeaveApplication{
		ID:           s.genID.Generate(),
		EmployeeCode: code,
		FromDate:     from,
		ToDate:       to,
		Kind:         kind,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	resp := toResponse(application)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.LeaveApplication{})
	if code := strings.TrimSpace(req.EmployeeCode); code != "" {
		stmt = stmt.Where("employee_code = ?", code)
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var applications []domain.LeaveApplication
	if err := stmt.Order("from_date DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(applications))
	for _, application := range applications {
		resp = append(resp, toResponse(&application))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(application)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	application, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	fromStr := application.FromDate.Format(dateLayout)
	toStr := application.ToDate.Format(dateLayout)
	if req.FromDate != nil {
		fromStr = *req.FromDate
	}
	if req.ToDate != nil {
		toStr = *req.ToDate
	}
	from, to, err := parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	application.FromDate = from
	application.ToDate = to

	if req.Kind != nil {
		kind := strings.ToLower(strings.TrimSpace(*req.Kind))
		if _, ok := leaveKinds[kind]; !ok {
			return nil, domain.ErrInvalidKind
		}
		application.Kind = kind
	}
	if req.Reason != nil {
		application.Reason = strings.TrimSpace(*req.Reason)
	}

	application.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(application).Error; err != nil {
		return nil, err
	}
	resp := toResponse(application)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	application, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(application).Error
}

func (s *Service) Approve(ctx context.Context, id string) (*domain.Response, error) {
	return s.transition(ctx, id, domain.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (*domain.Response, error) {
	return s.transition(ctx, id, domain.StatusRejected)
}

// transition moves a pending application to a terminal status. Approved and
// rejected rows stay as they are.
func (s *Service) transition(ctx context.Context, id, status string) (*domain.Response, error) {
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	application.Status = status
	application.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(application).Error; err != nil {
		return nil, err
	}
	s.log.Info("leave application resolved",
		zap.String("id", application.ID.String()),
		zap.String("employee_code", application.EmployeeCode),
		zap.String("status", status),
	)
	resp := toResponse(application)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.LeaveApplication, error) {
	applicationID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var application domain.LeaveApplication
	err = s.db.WithContext(ctx).First(&application, "id = ?", applicationID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &application, nil
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(fromStr), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDates
	}
	to, err := time.ParseInLocation(dateLayout, strings.TrimSpace(toStr), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDates
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDates
	}
	return from, to, nil
}

func toResponse(application *domain.LeaveApplication) domain.Response {
	return domain.Response{
		ID:           application.ID.String(),
		EmployeeCode: application.EmployeeCode,
		FromDate:     application.FromDate.Format(dateLayout),
		ToDate:       application.ToDate.Format(dateLayout),
		Kind:         application.Kind,
		Reason:       application.Reason,
		Status:       application.Status,
		CreatedAt:    application.CreatedAt,
		UpdatedAt:    application.UpdatedAt,
	}
}
