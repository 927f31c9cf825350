package repos

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"couponhub/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is its own database.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed stores/coupons/categories if the catalog is empty
	fx, err := loadFixtures()
	if err != nil {
		return nil, err
	}
	if err := seedIfEmpty(context.Background(), db, fx); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db, fx.Users); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Stores
CREATE TABLE IF NOT EXISTS stores(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  logo_url TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_stores_name       ON stores(name);
CREATE INDEX IF NOT EXISTS idx_stores_created_at ON stores(created_at);

-- Coupons (store_name/store_logo_url are copies taken when the coupon is written)
CREATE TABLE IF NOT EXISTS coupons(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  store_name TEXT NOT NULL DEFAULT '',
  store_logo_url TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL DEFAULT '',
  discount TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  exclusive INTEGER NOT NULL DEFAULT 0,
  expiry_date TEXT NOT NULL DEFAULT '',
  clicks INTEGER NOT NULL DEFAULT 0 CHECK (clicks >= 0),
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_coupons_store      ON coupons(store_id);
CREATE INDEX IF NOT EXISTS idx_coupons_title      ON coupons(title);
CREATE INDEX IF NOT EXISTS idx_coupons_created_at ON coupons(created_at);

-- Categories (admin-managed)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  icon_url TEXT NOT NULL DEFAULT '',
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  store_name TEXT NOT NULL DEFAULT '',
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  title TEXT NOT NULL,
  comment TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  helpful INTEGER NOT NULL DEFAULT 0,
  not_helpful INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_store ON reviews(store_id, created_at);

-- Saving guides imported from feeds
CREATE TABLE IF NOT EXISTS articles(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  link TEXT NOT NULL,
  summary TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  published_at DATETIME NOT NULL,
  imported_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Saved coupons
CREATE TABLE IF NOT EXISTS saved_coupons(
  user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  coupon_id TEXT NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (user_id, coupon_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(ctx context.Context, db *sqlx.DB, fx *fixtures) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM stores`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("[seed] inserting demo stores/coupons/categories")
	return insertCatalog(ctx, db, fx)
}

// Reseed wipes the catalog tables and loads the bundled fixtures again.
// Users, sessions and imported articles are left alone.
func Reseed(ctx context.Context, db *sqlx.DB) error {
	fx, err := loadFixtures()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{"saved_coupons", "reviews", "coupons", "stores", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return insertCatalog(ctx, db, fx)
}

func insertCatalog(ctx context.Context, db *sqlx.DB, fx *fixtures) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range fx.Categories {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO categories(id,name,slug,description,icon_url,display_order,created_at)
			VALUES(:id,:name,:slug,:description,:icon_url,:display_order,CURRENT_TIMESTAMP)`, c); err != nil {
			return err
		}
	}
	for _, s := range fx.stores() {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO stores(id,name,description,logo_url,website,category,created_at)
			VALUES(:id,:name,:description,:logo_url,:website,:category,:created_at)`, s); err != nil {
			return err
		}
	}
	for _, c := range fx.coupons() {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO coupons(id,store_id,store_name,store_logo_url,title,description,code,discount,link,exclusive,expiry_date,created_at)
			VALUES(:id,:store_id,:store_name,:store_logo_url,:title,:description,:code,:discount,:link,:exclusive,:expiry_date,:created_at)`, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures the fixture accounts exist (idempotent).
func seedUsers(db *sqlx.DB, users []fixtureUser) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		var exists int
		if err := tx.Get(&exists, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, x.Email); err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		hash, err := HashPassword(x.Password)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// notFound maps an empty result onto the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
