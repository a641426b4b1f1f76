package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ingredientdomain "github.com/opencanteen/mensa/internal/ingredient/domain"
	"github.com/opencanteen/mensa/internal/meal/domain"
	"github.com/opencanteen/mensa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Repo           domain.Repository
	IngredientRepo ingredientdomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	repo           domain.Repository
	ingredientRepo ingredientdomain.Repository
	genID          *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("meal.service"),
		repo:           p.Repo,
		ingredientRepo: p.IngredientRepo,
		genID:          p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	mealID := s.genID.Generate()
	links, err := s.parseLinks(ctx, mealID, req.Ingredients)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meal := &domain.Meal{
		ID:          mealID,
		Name:        name,
		Price:       req.Price,
		ImageURL:    trimPtr(req.ImageURL),
		Ingredients: links,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(req.NameTranslations) > 0 {
		meal.NameTranslations = toJSONMap(req.NameTranslations)
	}
	if len(req.Tags) > 0 {
		meal.Tags = toJSONArray(req.Tags)
	}

	if err := s.repo.Create(ctx, s.db, meal); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	resp := toResponse(meal)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	meals, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{
		Name: strings.TrimSpace(req.Name),
		Tag:  strings.TrimSpace(req.Tag),
	})
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(meals))
	for _, meal := range meals {
		resp = append(resp, toResponse(&meal))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	mealID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	meal, err := s.repo.FindByID(ctx, s.db, mealID.Int64())
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(meal)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	mealID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	meal, err := s.repo.FindByID(ctx, s.db, mealID.Int64())
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		meal.Name = name
	}
	if req.NameTranslations != nil {
		meal.NameTranslations = toJSONMap(req.NameTranslations)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, domain.ErrInvalidPrice
		}
		meal.Price = *req.Price
	}
	if req.Tags != nil {
		meal.Tags = toJSONArray(req.Tags)
	}
	if req.ImageURL != nil {
		meal.ImageURL = trimPtr(req.ImageURL)
	}

	meal.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, meal); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrNameTaken
			}
			return err
		}
		if req.Ingredients != nil {
			links, err := s.parseLinks(ctx, meal.ID, req.Ingredients)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceIngredients(ctx, tx, meal.ID.Int64(), links); err != nil {
				return err
			}
			meal.Ingredients = links
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(meal)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	mealID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	meal, err := s.repo.FindByID(ctx, s.db, mealID.Int64())
	if err != nil {
		return err
	}
	if meal == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, mealID.Int64())
}

func (s *Service) parseLinks(ctx context.Context, mealID snowflake.ID, links []domain.IngredientLink) ([]domain.MealIngredient, error) {
	if len(links) == 0 {
		return nil, nil
	}

	out := make([]domain.MealIngredient, 0, len(links))
	for _, link := range links {
		ingredientID, err := snowflake.ParseString(strings.TrimSpace(link.IngredientID))
		if err != nil || link.Quantity <= 0 {
			return nil, domain.ErrInvalidIngredient
		}
		ingredient, err := s.ingredientRepo.FindByID(ctx, s.db, ingredientID.Int64())
		if err != nil {
			return nil, err
		}
		if ingredient == nil {
			return nil, domain.ErrInvalidIngredient
		}
		out = append(out, domain.MealIngredient{
			MealID:       mealID,
			IngredientID: ingredientID,
			Quantity:     link.Quantity,
		})
	}
	return out, nil
}

func toResponse(meal *domain.Meal) domain.Response {
	resp := domain.Response{
		ID:        meal.ID.String(),
		Name:      meal.Name,
		Price:     meal.Price,
		ImageURL:  meal.ImageURL,
		CreatedAt: meal.CreatedAt,
		UpdatedAt: meal.UpdatedAt,
	}

	if len(meal.NameTranslations) > 0 {
		translations := make(map[string]string, len(meal.NameTranslations))
		for lang, value := range meal.NameTranslations {
			if text, ok := value.(string); ok {
				translations[lang] = text
			}
		}
		resp.NameTranslations = translations
	}
	if len(meal.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(meal.Tags, &tags); err == nil {
			resp.Tags = tags
		}
	}
	for _, link := range meal.Ingredients {
		resp.Ingredients = append(resp.Ingredients, domain.IngredientLink{
			IngredientID: link.IngredientID.String(),
			Quantity:     link.Quantity,
		})
	}
	return resp
}

func toJSONMap(values map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}

func toJSONArray(values []string) datatypes.JSON {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
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
