package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/opencanteen/mensa/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	org := &domain.Organization{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         slug.Make(name),
		Address:      trimPtr(req.Address),
		ContactEmail: trimPtr(req.ContactEmail),
		CodePrefix:   codePrefix(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, org); err != nil {
		return nil, err
	}
	resp := toResponse(org)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	orgs, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toResponse(&org))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID.Int64())
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(org)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID.Int64())
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Address != nil {
		org.Address = trimPtr(req.Address)
	}
	if req.ContactEmail != nil {
		org.ContactEmail = trimPtr(req.ContactEmail)
	}

	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, org); err != nil {
		return nil, err
	}
	resp := toResponse(org)
	return &resp, nil
}

func (s *Service) NextEmployeeCode(ctx context.Context, id string) (string, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return "", domain.ErrInvalidID
	}

	var code string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := s.repo.FindByID(ctx, tx, orgID.Int64())
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}

		reserved, err := s.repo.ReserveEmployeeNumber(ctx, tx, orgID.Int64())
		if err != nil {
			return err
		}
		code = fmt.Sprintf("%s-%04d", org.CodePrefix, reserved)
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func toResponse(org *domain.Organization) domain.Response {
	return domain.Response{
		ID:           org.ID.String(),
		Name:         org.Name,
		Slug:         org.Slug,
		Address:      org.Address,
		ContactEmail: org.ContactEmail,
		CodePrefix:   org.CodePrefix,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}

func codePrefix(name string) string {
	cleaned := strings.ToUpper(slug.Make(name))
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	if cleaned == "" {
		cleaned = "EMP"
	}
	return cleaned
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
