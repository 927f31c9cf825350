package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

// prefixEnd closes a prefix range: name >= term AND name < term+prefixEnd.
const prefixEnd = "\uf8ff"

const storeCols = `id, name, description, logo_url, website, category, created_at, updated_at`

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

// List returns every store, by name or newest first.
func (r *StoreRepo) List(ctx context.Context, newestFirst bool) ([]domain.Store, error) {
	order := `name`
	if newestFirst {
		order = `created_at DESC, name`
	}
	out := []domain.Store{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+storeCols+` FROM stores ORDER BY `+order)
	return out, err
}

func (r *StoreRepo) Get(ctx context.Context, id string) (domain.Store, error) {
	var s domain.Store
	err := r.db.GetContext(ctx, &s, `SELECT `+storeCols+` FROM stores WHERE id = ?`, id)
	return s, notFound(err)
}

// SearchPrefix is a case-sensitive prefix match on name, ordered by name.
func (r *StoreRepo) SearchPrefix(ctx context.Context, term string) ([]domain.Store, error) {
	out := []domain.Store{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+storeCols+`
	  FROM stores
	  WHERE name >= ? AND name < ?
	  ORDER BY name
	`, term, term+prefixEnd)
	return out, err
}

func (r *StoreRepo) Create(ctx context.Context, s *domain.Store) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt.Time, s.CreatedAt.Valid = time.Now().UTC(), true
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO stores(id,name,description,logo_url,website,category,created_at)
	  VALUES(:id,:name,:description,:logo_url,:website,:category,:created_at)
	`, s)
	return err
}

func (r *StoreRepo) Update(ctx context.Context, s *domain.Store) error {
	s.UpdatedAt.Time, s.UpdatedAt.Valid = time.Now().UTC(), true
	res, err := r.db.NamedExecContext(ctx, `
	  UPDATE stores
	  SET name=:name, description=:description, logo_url=:logo_url, website=:website,
	      category=:category, updated_at=:updated_at
	  WHERE id=:id
	`, s)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a store together with its coupons, their saves and its reviews.
func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		`DELETE FROM saved_coupons WHERE coupon_id IN (SELECT id FROM coupons WHERE store_id = ?)`,
		`DELETE FROM coupons WHERE store_id = ?`,
		`DELETE FROM reviews WHERE store_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// Categories lists the distinct non-empty store categories.
func (r *StoreRepo) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT DISTINCT category FROM stores WHERE category != '' ORDER BY category
	`)
	return out, err
}

func (r *StoreRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM stores`)
	return n, err
}
