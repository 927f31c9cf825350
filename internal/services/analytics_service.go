package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"couponhub/internal/domain"
	"couponhub/internal/listquery"
	"couponhub/internal/repos"
)

const topN = 5

type Overview struct {
	Stores        int
	Coupons       int
	Categories    int
	ActiveCoupons int
	Clicks        int
	TopCoupons    []domain.Coupon
	TopStores     []repos.StoreCouponCount
}

type AnalyticsService struct {
	Stores  *repos.StoreRepo
	Coupons *repos.CouponRepo
	Cats    *repos.CategoryRepo
}

func NewAnalyticsService(stores *repos.StoreRepo, coupons *repos.CouponRepo, cats *repos.CategoryRepo) *AnalyticsService {
	return &AnalyticsService{Stores: stores, Coupons: coupons, Cats: cats}
}

// Overview gathers the dashboard counters. A coupon is active when it has no expiry
// date, an unreadable one, or one that is not before today.
func (s *AnalyticsService) Overview(ctx context.Context, now time.Time) (Overview, error) {
	var ov Overview
	var all []domain.Coupon

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { ov.Stores, err = s.Stores.Count(gctx); return })
	g.Go(func() (err error) { ov.Categories, err = s.Cats.Count(gctx); return })
	g.Go(func() (err error) { ov.Clicks, err = s.Coupons.TotalClicks(gctx); return })
	g.Go(func() (err error) { ov.TopCoupons, err = s.Coupons.Top(gctx, topN); return })
	g.Go(func() (err error) { ov.TopStores, err = s.Coupons.TopStores(gctx, topN); return })
	g.Go(func() (err error) { all, err = s.Coupons.List(gctx); return })
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("analytics overview: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	ov.Coupons = len(all)
	for _, c := range all {
		exp, ok := listquery.ParseExpiry(c.ExpiryDate)
		if !ok || !exp.Before(today) {
			ov.ActiveCoupons++
		}
	}
	return ov, nil
}
