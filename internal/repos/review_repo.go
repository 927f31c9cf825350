package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ByStore returns the latest reviews of a store, newest first.
func (r *ReviewRepo) ByStore(ctx context.Context, storeID string, limit int) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, store_id, store_name, rating, title, comment, name, email,
	         helpful, not_helpful, created_at
	  FROM reviews
	  WHERE store_id = ?
	  ORDER BY created_at DESC, rowid DESC
	  LIMIT ?
	`, storeID, limit)
	return out, err
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO reviews(id,store_id,store_name,rating,title,comment,name,email,created_at)
	  VALUES(:id,:store_id,:store_name,:rating,:title,:comment,:name,:email,:created_at)
	`, rv)
	return err
}

// Vote adds one helpful or not-helpful mark.
func (r *ReviewRepo) Vote(ctx context.Context, id string, helpful bool) error {
	col := "not_helpful"
	if helpful {
		col = "helpful"
	}
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET `+col+` = `+col+` + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// StoreOf returns the store a review belongs to.
func (r *ReviewRepo) StoreOf(ctx context.Context, id string) (string, error) {
	var storeID string
	err := r.db.GetContext(ctx, &storeID, `SELECT store_id FROM reviews WHERE id = ?`, id)
	return storeID, notFound(err)
}
