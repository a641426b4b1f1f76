package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	"github.com/opencanteen/mensa/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	MealRepo     mealdomain.Repository
	EmployeeRepo employeedomain.Repository
	MealTypeSvc  mealtypedomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	mealRepo     mealdomain.Repository
	employeeRepo employeedomain.Repository
	mealTypeSvc  mealtypedomain.Service
	genID        *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		repo:         p.Repo,
		mealRepo:     p.MealRepo,
		employeeRepo: p.EmployeeRepo,
		mealTypeSvc:  p.MealTypeSvc,
		genID:        p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		return nil, domain.ErrInvalidEmployee
	}
	employee, err := s.employeeRepo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrInvalidEmployee
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}
	mealTypeID, err := snowflake.ParseString(strings.TrimSpace(req.MealTypeID))
	if err != nil {
		return nil, domain.ErrInvalidMealType
	}
	if _, err := s.mealTypeSvc.Get(ctx, mealTypeID.String()); err != nil {
		return nil, domain.ErrInvalidMealType
	}

	orderDate, err := time.Parse(dateLayout, strings.TrimSpace(req.OrderDate))
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	if len(req.Items) == 0 {
		return nil, domain.ErrInvalidItems
	}
	items := make([]domain.Item, 0, len(req.Items))
	mealIDs := make([]int64, 0, len(req.Items))
	for _, raw := range req.Items {
		item, err := domain.ParseItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		mealIDs = append(mealIDs, item.MealID.Int64())
	}

	meals, err := s.mealRepo.FindByIDs(ctx, s.db, mealIDs)
	if err != nil {
		return nil, err
	}
	priceByMeal := make(map[snowflake.ID]float64, len(meals))
	for _, meal := range meals {
		priceByMeal[meal.ID] = meal.Price
	}

	var price float64
	encoded := make([]string, 0, len(items))
	for _, item := range items {
		mealPrice, ok := priceByMeal[item.MealID]
		if !ok {
			return nil, domain.ErrInvalidItems
		}
		price += mealPrice * float64(item.Count)
		encoded = append(encoded, item.Encode())
	}

	rawItems, err := json.Marshal(encoded)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:           s.genID.Generate(),
		EmployeeCode: code,
		OrgID:        orgID,
		MealTypeID:   mealTypeID,
		Items:        datatypes.JSON(rawItems),
		OrderDate:    orderDate,
		Price:        price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, order); err != nil {
		return nil, err
	}
	resp := toResponse(order)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orders, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{
		EmployeeCode: strings.TrimSpace(req.EmployeeCode),
		Date:         req.Date,
		Served:       req.Served,
	})
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toResponse(&order))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(order)
	return &resp, nil
}

func (s *Service) MarkServed(ctx context.Context, id string) (*domain.Response, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Served = true
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return nil, err
	}
	resp := toResponse(order)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, order.ID.Int64())
}

// ServingCounts is the kitchen's prep sheet: for the given date it decodes
// every order's item lines, resolves meal and meal-type names through two
// lookup maps, and sums the counts.
func (s *Service) ServingCounts(ctx context.Context, date time.Time) ([]domain.ServingCountRow, error) {
	orders, err := s.repo.FindAll(ctx, s.db, domain.ListFilter{Date: &date})
	if err != nil {
		return nil, err
	}

	type key struct {
		mealTypeID snowflake.ID
		mealID     snowflake.ID
	}
	counts := make(map[key]int)
	mealIDSet := make(map[snowflake.ID]struct{})
	for _, order := range orders {
		var encoded []string
		if err := json.Unmarshal(order.Items, &encoded); err != nil {
			s.log.Warn("skipping order with malformed items",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, raw := range encoded {
			item, err := domain.ParseItem(raw)
			if err != nil {
				continue
			}
			counts[key{order.MealTypeID, item.MealID}] += item.Count
			mealIDSet[item.MealID] = struct{}{}
		}
	}

	mealIDs := make([]int64, 0, len(mealIDSet))
	for id := range mealIDSet {
		mealIDs = append(mealIDs, id.Int64())
	}
	meals, err := s.mealRepo.FindByIDs(ctx, s.db, mealIDs)
	if err != nil {
		return nil, err
	}
	mealNames := make(map[snowflake.ID]string, len(meals))
	for _, meal := range meals {
		mealNames[meal.ID] = meal.Name
	}

	mealTypes, err := s.mealTypeSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	mealTypeNames := make(map[string]string, len(mealTypes))
	for _, mealType := range mealTypes {
		mealTypeNames[mealType.ID] = mealType.Name
	}

	rows := make([]domain.ServingCountRow, 0, len(counts))
	for k, count := range counts {
		rows = append(rows, domain.ServingCountRow{
			MealTypeID:   k.mealTypeID.String(),
			MealTypeName: mealTypeNames[k.mealTypeID.String()],
			MealID:       k.mealID.String(),
			MealName:     mealNames[k.mealID],
			Count:        count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MealTypeName != rows[j].MealTypeName {
			return rows[i].MealTypeName < rows[j].MealTypeName
		}
		return rows[i].MealName < rows[j].MealName
	})
	return rows, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	order, err := s.repo.FindByID(ctx, s.db, orderID.Int64())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func toResponse(order *domain.Order) domain.Response {
	var items []string
	_ = json.Unmarshal(order.Items, &items)

	return domain.Response{
		ID:             order.ID.String(),
		EmployeeCode:   order.EmployeeCode,
		OrganizationID: order.OrgID.String(),
		MealTypeID:     order.MealTypeID.String(),
		Items:          items,
		OrderDate:      order.OrderDate.Format(dateLayout),
		Price:          order.Price,
		Served:         order.Served,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}
