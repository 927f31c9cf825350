package services

import (
	"context"
	"fmt"

	"couponhub/internal/domain"
	"couponhub/internal/repos"
)

type SavedService struct {
	Repo    *repos.SavedRepo
	Coupons *repos.CouponRepo
}

func NewSavedService(r *repos.SavedRepo, coupons *repos.CouponRepo) *SavedService {
	return &SavedService{Repo: r, Coupons: coupons}
}

// Save is idempotent; an unknown coupon yields domain.ErrNotFound.
func (s *SavedService) Save(ctx context.Context, userID, couponID string) error {
	if _, err := s.Coupons.Get(ctx, couponID); err != nil {
		return fmt.Errorf("save coupon %s: %w", couponID, err)
	}
	return s.Repo.Add(ctx, userID, couponID)
}

func (s *SavedService) Unsave(ctx context.Context, userID, couponID string) error {
	return s.Repo.Remove(ctx, userID, couponID)
}

func (s *SavedService) List(ctx context.Context, userID string) ([]domain.SavedCoupon, error) {
	return s.Repo.List(ctx, userID)
}

// IDs marks which coupons the user already saved, for toggling buttons in lists.
func (s *SavedService) IDs(ctx context.Context, userID string) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}
	return s.Repo.IDs(ctx, userID)
}
