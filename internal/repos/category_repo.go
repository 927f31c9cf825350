package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

const categoryCols = `id, name, slug, description, icon_url, display_order, created_at, updated_at`

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+categoryCols+`
	  FROM categories
	  ORDER BY display_order, name
	`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, notFound(err)
}

// Create fails with domain.ErrConflict when the name is already taken, ignoring case.
func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt.Time, c.CreatedAt.Valid = time.Now().UTC(), true
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO categories(id,name,slug,description,icon_url,display_order,created_at)
	  VALUES(:id,:name,:slug,:description,:icon_url,:display_order,:created_at)
	`, c)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt.Time, c.UpdatedAt.Valid = time.Now().UTC(), true
	res, err := r.db.NamedExecContext(ctx, `
	  UPDATE categories
	  SET name=:name, slug=:slug, description=:description, icon_url=:icon_url,
	      display_order=:display_order, updated_at=:updated_at
	  WHERE id=:id
	`, c)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories`)
	return n, err
}
