package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/directory"
	"github.com/opencanteen/mensa/internal/employee/domain"
	orgdomain "github.com/opencanteen/mensa/internal/organization/domain"
	"github.com/opencanteen/mensa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPasskeyAttempts = 20

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	OrgSvc    orgdomain.Service
	Directory directory.Client
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	orgSvc    orgdomain.Service
	directory directory.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("employee.service"),
		repo:      p.Repo,
		orgSvc:    p.OrgSvc,
		directory: p.Directory,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return nil, domain.ErrInvalidRole
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if req.Salary <= 0 {
		return nil, domain.ErrInvalidSalary
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code, err = s.orgSvc.NextEmployeeCode(ctx, orgID.String())
		if err != nil {
			return nil, err
		}
	}

	passkey, err := s.generatePasskey(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	employee := &domain.Employee{
		Code:      code,
		OrgID:     orgID,
		Name:      name,
		Role:      role,
		Email:     email,
		Phone:     trimPtr(req.Phone),
		Address:   trimPtr(req.Address),
		BirthDate: req.BirthDate,
		Salary:    req.Salary,
		Passkey:   passkey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, employee); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}

	resp := toResponse(employee)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	employees, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{
		Name: strings.TrimSpace(req.Name),
		Role: strings.TrimSpace(req.Role),
	})
	if err != nil {
		return nil, err
	}

	// An empty canteen roster is a valid answer, not an error.
	resp := make([]domain.Response, 0, len(employees))
	for _, employee := range employees {
		resp = append(resp, toResponse(&employee))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Response, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	employee, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(employee)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	employee, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		employee.Name = name
	}
	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if role == "" {
			return nil, domain.ErrInvalidRole
		}
		employee.Role = role
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		employee.Email = email
	}
	if req.Phone != nil {
		employee.Phone = trimPtr(req.Phone)
	}
	if req.Address != nil {
		employee.Address = trimPtr(req.Address)
	}
	if req.BirthDate != nil {
		employee.BirthDate = req.BirthDate
	}
	if req.Salary != nil {
		if *req.Salary <= 0 {
			return nil, domain.ErrInvalidSalary
		}
		employee.Salary = *req.Salary
	}

	employee.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, employee); err != nil {
		return nil, err
	}
	resp := toResponse(employee)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidCode
	}

	employee, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return err
	}
	if employee == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, code); err != nil {
		return err
	}

	// Identity-provider removal is best effort: the roster row is already gone
	// and a stale provider identity cannot log into anything that matters.
	if err := s.directory.Delete(ctx, employee.Email); err != nil {
		s.log.Warn("directory delete failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Service) generatePasskey(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxPasskeyAttempts; attempt++ {
		candidate := fmt.Sprintf("%06d", rand.Intn(1_000_000))
		exists, err := s.repo.PasskeyExists(ctx, s.db, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.ErrPasskeyExhausted
}

func toResponse(employee *domain.Employee) domain.Response {
	return domain.Response{
		Code:           employee.Code,
		OrganizationID: employee.OrgID.String(),
		Name:           employee.Name,
		Role:           employee.Role,
		Email:          employee.Email,
		Phone:          employee.Phone,
		Address:        employee.Address,
		BirthDate:      employee.BirthDate,
		Salary:         employee.Salary,
		Passkey:        employee.Passkey,
		CreatedAt:      employee.CreatedAt,
		UpdatedAt:      employee.UpdatedAt,
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
