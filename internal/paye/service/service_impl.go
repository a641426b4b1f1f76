package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/paye/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
		log:   p.Log.Named("paye.service"),
		genID: p.GenID,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	slabs, err := s.ordered(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toResponses(slabs), nil
}

func (s *Service) ReplaceAll(ctx context.Context, slabs []domain.Slab) ([]domain.Response, error) {
	if err := validateSlabs(slabs); err != nil {
		return nil, err
	}

	rows := make([]domain.PayeTaxSlab, 0, len(slabs))
	for i, slab := range slabs {
		rows = append(rows, domain.PayeTaxSlab{
			ID:         s.genID.Generate(),
			LowerBound: slab.LowerBound,
			UpperBound: slab.UpperBound,
			Rate:       slab.Rate,
			OrderIndex: i,
		})
	}

	// Delete and insert share one transaction so a failed insert never
	// leaves the slab table empty.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.PayeTaxSlab{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("paye slabs replaced", zap.Int("count", len(rows)))
	return toResponses(rows), nil
}

func (s *Service) Deduction(ctx context.Context, salary float64) (float64, error) {
	if salary <= 0 {
		return 0, nil
	}
	slabs, err := s.ordered(ctx, s.db)
	if err != nil {
		return 0, err
	}

	var deduction float64
	for _, slab := range slabs {
		if salary <= slab.LowerBound {
			break
		}
		upper := salary
		if slab.UpperBound != nil && *slab.UpperBound < upper {
			upper = *slab.UpperBound
		}
		deduction += (upper - slab.LowerBound) * slab.Rate / 100
	}
	return deduction, nil
}

func (s *Service) ordered(ctx context.Context, db *gorm.DB) ([]domain.PayeTaxSlab, error) {
	var slabs []domain.PayeTaxSlab
	err := db.WithContext(ctx).Order("order_index ASC").Find(&slabs).Error
	if err != nil {
		return nil, err
	}
	return slabs, nil
}

// validateSlabs requires sorted, contiguous, non-overlapping brackets with at
// most one open-ended slab at the tail.
func validateSlabs(slabs []domain.Slab) error {
	if !sort.SliceIsSorted(slabs, func(i, j int) bool {
		return slabs[i].LowerBound < slabs[j].LowerBound
	}) {
		return domain.ErrInvalidSlab
	}
	for i, slab := range slabs {
		if slab.LowerBound < 0 || slab.Rate < 0 || slab.Rate > 100 {
			return domain.ErrInvalidSlab
		}
		if slab.UpperBound != nil && *slab.UpperBound <= slab.LowerBound {
			return domain.ErrInvalidSlab
		}
		if slab.UpperBound == nil && i != len(slabs)-1 {
			return domain.ErrInvalidSlab
		}
		if i > 0 {
			prev := slabs[i-1]
			if prev.UpperBound == nil || *prev.UpperBound != slab.LowerBound {
				return domain.ErrInvalidSlab
			}
		}
	}
	return nil
}

func toResponses(slabs []domain.PayeTaxSlab) []domain.Response {
	resp := make([]domain.Response, 0, len(slabs))
	for _, slab := range slabs {
		resp = append(resp, domain.Response{
			ID:         slab.ID.String(),
			LowerBound: slab.LowerBound,
			UpperBound: slab.UpperBound,
			Rate:       slab.Rate,
			OrderIndex: slab.OrderIndex,
		})
	}
	return resp
}
