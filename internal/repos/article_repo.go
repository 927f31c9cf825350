package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
)

const articleCols = `id, title, link, summary, source, category, published_at, imported_at`

type ArticleRepo struct{ db *sqlx.DB }

func NewArticleRepo(db *sqlx.DB) *ArticleRepo { return &ArticleRepo{db: db} }

// Upsert inserts an article or refreshes the copy imported earlier under the same id.
func (r *ArticleRepo) Upsert(ctx context.Context, a domain.Article) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO articles(id,title,link,summary,source,category,published_at,imported_at)
	  VALUES(:id,:title,:link,:summary,:source,:category,:published_at,:imported_at)
	  ON CONFLICT(id) DO UPDATE SET
	    title=excluded.title, summary=excluded.summary, source=excluded.source,
	    category=excluded.category, published_at=excluded.published_at,
	    imported_at=excluded.imported_at
	`, a)
	return err
}

// List returns the most recently published articles; limit <= 0 means all.
func (r *ArticleRepo) List(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = -1
	}
	out := []domain.Article{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+articleCols+`
	  FROM articles
	  ORDER BY published_at DESC, title
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ArticleRepo) Get(ctx context.Context, id string) (domain.Article, error) {
	var a domain.Article
	err := r.db.GetContext(ctx, &a, `SELECT `+articleCols+` FROM articles WHERE id = ?`, id)
	return a, notFound(err)
}
