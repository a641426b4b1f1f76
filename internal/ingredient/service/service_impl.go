package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/ingredient/domain"
	"github.com/opencanteen/mensa/pkg/db"
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
		log:   p.Log.Named("ingredient.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.PricePerUnit <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	priority := req.Priority
	if priority == 0 {
		priority = 1
	}
	if priority < 1 {
		return nil, domain.ErrInvalidPriority
	}

	now := time.Now().UTC()
	ingredient := &domain.Ingredient{
		ID:           s.genID.Generate(),
		Name:         name,
		PricePerUnit: req.PricePerUnit,
		Quantity:     req.Quantity,
		Priority:     priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, ingredient); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	resp := toResponse(ingredient)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	ingredients, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(ingredients))
	for _, ingredient := range ingredients {
		resp = append(resp, toResponse(&ingredient))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	ingredientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ingredient, err := s.repo.FindByID(ctx, s.db, ingredientID.Int64())
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(ingredient)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	ingredientID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ingredient, err := s.repo.FindByID(ctx, s.db, ingredientID.Int64())
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		ingredient.Name = name
	}
	if req.PricePerUnit != nil {
		if *req.PricePerUnit <= 0 {
			return nil, domain.ErrInvalidPrice
		}
		ingredient.PricePerUnit = *req.PricePerUnit
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		ingredient.Quantity = *req.Quantity
	}
	if req.Priority != nil {
		if *req.Priority < 1 {
			return nil, domain.ErrInvalidPriority
		}
		ingredient.Priority = *req.Priority
	}

	ingredient.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, ingredient); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	resp := toResponse(ingredient)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ingredientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	ingredient, err := s.repo.FindByID(ctx, s.db, ingredientID.Int64())
	if err != nil {
		return err
	}
	if ingredient == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, ingredientID.Int64())
}

func (s *Service) PriceVariance(ctx context.Context) ([]domain.PriceVarianceRow, error) {
	ingredients, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	byTier := make(map[int]*domain.PriceVarianceRow)
	sums := make(map[int]float64)
	for _, ingredient := range ingredients {
		row, ok := byTier[ingredient.Priority]
		if !ok {
			row = &domain.PriceVarianceRow{
				Priority: ingredient.Priority,
				MinPrice: ingredient.PricePerUnit,
				MaxPrice: ingredient.PricePerUnit,
			}
			byTier[ingredient.Priority] = row
		}
		if ingredient.PricePerUnit < row.MinPrice {
			row.MinPrice = ingredient.PricePerUnit
		}
		if ingredient.PricePerUnit > row.MaxPrice {
			row.MaxPrice = ingredient.PricePerUnit
		}
		row.Count++
		sums[ingredient.Priority] += ingredient.PricePerUnit
	}

	rows := make([]domain.PriceVarianceRow, 0, len(byTier))
	for priority, row := range byTier {
		row.AvgPrice = sums[priority] / float64(row.Count)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Priority < rows[j].Priority })
	return rows, nil
}

func toResponse(ingredient *domain.Ingredient) domain.Response {
	return domain.Response{
		ID:           ingredient.ID.String(),
		Name:         ingredient.Name,
		PricePerUnit: ingredient.PricePerUnit,
		Quantity:     ingredient.Quantity,
		Priority:     ingredient.Priority,
		CreatedAt:    ingredient.CreatedAt,
		UpdatedAt:    ingredient.UpdatedAt,
	}
}
