package services

import (
	"context"
	"fmt"

	"couponhub/internal/cache"
	"couponhub/internal/domain"
	"couponhub/internal/listquery"
	"couponhub/internal/repos"
)

const kindCategory = "category"

type CatalogService struct {
	Stores  *repos.StoreRepo
	Coupons *repos.CouponRepo
	Cats    *repos.CategoryRepo
	Cache   *cache.Snapshots
}

func NewCatalogService(stores *repos.StoreRepo, coupons *repos.CouponRepo, cats *repos.CategoryRepo, snaps *cache.Snapshots) *CatalogService {
	return &CatalogService{Stores: stores, Coupons: coupons, Cats: cats, Cache: snaps}
}

// AllStores is the cached store snapshot, ordered by name.
func (s *CatalogService) AllStores(ctx context.Context) ([]domain.Store, error) {
	return cache.Load(ctx, s.Cache, domain.KindStore, func(ctx context.Context) ([]domain.Store, error) {
		return s.Stores.List(ctx, false)
	})
}

// AllCoupons is the cached coupon snapshot, newest first.
func (s *CatalogService) AllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return cache.Load(ctx, s.Cache, domain.KindCoupon, s.Coupons.List)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.Load(ctx, s.Cache, kindCategory, s.Cats.List)
}

type Home struct {
	Coupons    []domain.Coupon
	Stores     []domain.Store
	Categories []domain.Category
}

// Home returns the n latest coupons and stores plus every category.
func (s *CatalogService) Home(ctx context.Context, n int) (Home, error) {
	coupons, err := s.AllCoupons(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("home coupons: %w", err)
	}
	stores, err := s.AllStores(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("home stores: %w", err)
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("home categories: %w", err)
	}
	newest := listquery.Sort(stores, listquery.SortNewest)
	return Home{
		Coupons:    coupons[:min(n, len(coupons))],
		Stores:     newest[:min(n, len(newest))],
		Categories: cats,
	}, nil
}

type Directory struct {
	Result     listquery.Result[domain.Store]
	Categories []string
}

// StoreDirectory runs the letter/category/page criteria over every store.
func (s *CatalogService) StoreDirectory(ctx context.Context, c listquery.Criteria) (Directory, error) {
	stores, err := s.AllStores(ctx)
	if err != nil {
		return Directory{}, fmt.Errorf("store directory: %w", err)
	}
	cats, err := s.Stores.Categories(ctx)
	if err != nil {
		return Directory{}, fmt.Errorf("store categories: %w", err)
	}
	return Directory{Result: listquery.Run(stores, c), Categories: cats}, nil
}

type StoreDetail struct {
	Store   domain.Store
	Coupons []domain.Coupon
}

func (s *CatalogService) StoreDetail(ctx context.Context, id string) (StoreDetail, error) {
	st, err := s.Stores.Get(ctx, id)
	if err != nil {
		return StoreDetail{}, fmt.Errorf("store %s: %w", id, err)
	}
	coupons, err := s.Coupons.ByStore(ctx, id)
	if err != nil {
		return StoreDetail{}, fmt.Errorf("coupons of store %s: %w", id, err)
	}
	return StoreDetail{Store: st, Coupons: coupons}, nil
}

func (s *CatalogService) ListCoupons(ctx context.Context, c listquery.Criteria) (listquery.Result[domain.Coupon], error) {
	coupons, err := s.AllCoupons(ctx)
	if err != nil {
		return listquery.Result[domain.Coupon]{}, fmt.Errorf("coupon list: %w", err)
	}
	return listquery.Run(coupons, c), nil
}

func (s *CatalogService) ListStores(ctx context.Context, c listquery.Criteria) (listquery.Result[domain.Store], error) {
	d, err := s.StoreDirectory(ctx, c)
	return d.Result, err
}

// Reveal counts one click and returns the coupon with its code. Clicks do not bump
// the coupon snapshot; the counter is only read by analytics.
func (s *CatalogService) Reveal(ctx context.Context, id string) (domain.Coupon, error) {
	if err := s.Coupons.IncrementClicks(ctx, id); err != nil {
		return domain.Coupon{}, fmt.Errorf("reveal %s: %w", id, err)
	}
	c, err := s.Coupons.Get(ctx, id)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("reveal %s: %w", id, err)
	}
	return c, nil
}
