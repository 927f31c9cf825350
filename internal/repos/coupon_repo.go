package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

const couponCols = `id, store_id, store_name, store_logo_url, title, description, code, discount,
    link, exclusive, expiry_date, clicks, created_at, updated_at`

type CouponRepo struct{ db *sqlx.DB }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{db: db} }

// List returns every coupon, newest first.
func (r *CouponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+couponCols+` FROM coupons ORDER BY created_at DESC, title`)
	return out, err
}

func (r *CouponRepo) Get(ctx context.Context, id string) (domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.GetContext(ctx, &c, `SELECT `+couponCols+` FROM coupons WHERE id = ?`, id)
	return c, notFound(err)
}

func (r *CouponRepo) ByStore(ctx context.Context, storeID string) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+couponCols+`
	  FROM coupons
	  WHERE store_id = ?
	  ORDER BY created_at DESC, title
	`, storeID)
	return out, err
}

// SearchPrefix is a case-sensitive prefix match on title, ordered by title.
func (r *CouponRepo) SearchPrefix(ctx context.Context, term string) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+couponCols+`
	  FROM coupons
	  WHERE title >= ? AND title < ?
	  ORDER BY title
	`, term, term+prefixEnd)
	return out, err
}

func (r *CouponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt.Time, c.CreatedAt.Valid = time.Now().UTC(), true
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO coupons(id,store_id,store_name,store_logo_url,title,description,code,discount,
	                      link,exclusive,expiry_date,created_at)
	  VALUES(:id,:store_id,:store_name,:store_logo_url,:title,:description,:code,:discount,
	         :link,:exclusive,:expiry_date,:created_at)
	`, c)
	return err
}

func (r *CouponRepo) Update(ctx context.Context, c *domain.Coupon) error {
	c.UpdatedAt.Time, c.UpdatedAt.Valid = time.Now().UTC(), true
	res, err := r.db.NamedExecContext(ctx, `
	  UPDATE coupons
	  SET store_id=:store_id, store_name=:store_name, store_logo_url=:store_logo_url,
	      title=:title, description=:description, code=:code, discount=:discount,
	      link=:link, exclusive=:exclusive, expiry_date=:expiry_date, updated_at=:updated_at
	  WHERE id=:id
	`, c)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CouponRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_coupons WHERE coupon_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM coupons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// IncrementClicks counts one code reveal or deal click.
func (r *CouponRepo) IncrementClicks(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE coupons SET clicks = clicks + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Top returns the n most clicked coupons.
func (r *CouponRepo) Top(ctx context.Context, n int) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+couponCols+`
	  FROM coupons
	  ORDER BY clicks DESC, title
	  LIMIT ?
	`, n)
	return out, err
}

type StoreCouponCount struct {
	StoreID   string `db:"store_id"`
	StoreName string `db:"store_name"`
	Coupons   int    `db:"coupons"`
	Clicks    int    `db:"clicks"`
}

// TopStores ranks stores by how many coupons they carry.
func (r *CouponRepo) TopStores(ctx context.Context, n int) ([]StoreCouponCount, error) {
	out := []StoreCouponCount{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT s.id AS store_id, s.name AS store_name,
	         COUNT(c.id) AS coupons, COALESCE(SUM(c.clicks), 0) AS clicks
	  FROM stores s
	  LEFT JOIN coupons c ON c.store_id = s.id
	  GROUP BY s.id, s.name
	  ORDER BY coupons DESC, clicks DESC, s.name
	  LIMIT ?
	`, n)
	return out, err
}

func (r *CouponRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM coupons`)
	return n, err
}

func (r *CouponRepo) TotalClicks(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COALESCE(SUM(clicks), 0) FROM coupons`)
	return n, err
}
