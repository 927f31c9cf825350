package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"couponhub/internal/domain"
	"couponhub/internal/listquery"
	"couponhub/internal/repos"
)

type SearchService struct {
	Stores  *repos.StoreRepo
	Coupons *repos.CouponRepo
}

func NewSearchService(stores *repos.StoreRepo, coupons *repos.CouponRepo) *SearchService {
	return &SearchService{Stores: stores, Coupons: coupons}
}

// Hits runs the store and coupon prefix queries in parallel and returns stores
// first, then coupons. A name matching both kinds shows up twice.
func (s *SearchService) Hits(ctx context.Context, term string) ([]domain.SearchHit, error) {
	var (
		stores  []domain.Store
		coupons []domain.Coupon
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stores, err = s.Stores.SearchPrefix(gctx, term)
		return err
	})
	g.Go(func() (err error) {
		coupons, err = s.Coupons.SearchPrefix(gctx, term)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	hits := make([]domain.SearchHit, 0, len(stores)+len(coupons))
	for _, st := range stores {
		hits = append(hits, domain.StoreHit(st))
	}
	for _, c := range coupons {
		hits = append(hits, domain.CouponHit(c))
	}
	return hits, nil
}

// Search answers an empty term with an empty result instead of listing everything.
func (s *SearchService) Search(ctx context.Context, c listquery.Criteria) (listquery.Result[domain.SearchHit], error) {
	if c.Term == "" {
		return listquery.Run([]domain.SearchHit{}, c), nil
	}
	hits, err := s.Hits(ctx, c.Term)
	if err != nil {
		return listquery.Result[domain.SearchHit]{}, err
	}
	return listquery.Run(hits, c), nil
}
