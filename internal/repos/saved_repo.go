package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

type SavedRepo struct{ db *sqlx.DB }

func NewSavedRepo(db *sqlx.DB) *SavedRepo { return &SavedRepo{db: db} }

func (r *SavedRepo) Add(ctx context.Context, userID, couponID string) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO saved_coupons(user_id, coupon_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, coupon_id) DO NOTHING
	`, userID, couponID)
	return err
}

func (r *SavedRepo) Remove(ctx context.Context, userID, couponID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_coupons WHERE user_id=? AND coupon_id=?`, userID, couponID)
	return err
}

func (r *SavedRepo) List(ctx context.Context, userID string) ([]domain.SavedCoupon, error) {
	out := []domain.SavedCoupon{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT c.id AS coupon_id, c.title, c.store_name, c.code, c.expiry_date
	  FROM saved_coupons sc
	  JOIN coupons c ON c.id = sc.coupon_id
	  WHERE sc.user_id = ?
	  ORDER BY sc.created_at DESC, c.title
	`, userID)
	return out, err
}

// IDs returns the set of coupon ids the user has saved.
func (r *SavedRepo) IDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT coupon_id FROM saved_coupons WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
