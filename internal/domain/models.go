package domain

import (
	"database/sql"
	"strings"
	"time"
)

// Record kinds. A SearchHit carries one of these as its type tag.
const (
	KindStore  = "store"
	KindCoupon = "coupon"
)

type Store struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description,omitempty"`
	LogoURL     string       `db:"logo_url" json:"logoUrl,omitempty"`
	Website     string       `db:"website" json:"website,omitempty"`
	Category    string       `db:"category" json:"category,omitempty"`
	CreatedAt   sql.NullTime `db:"created_at" json:"-"`
	UpdatedAt   sql.NullTime `db:"updated_at" json:"-"`
}

func (s Store) RecordType() string   { return KindStore }
func (s Store) PrimaryText() string  { return s.Name }
func (s Store) CategoryText() string { return s.Category }
func (s Store) ExpiryText() string   { return "" }
func (s Store) Created() time.Time {
	if s.CreatedAt.Valid {
		return s.CreatedAt.Time
	}
	return time.Time{}
}

// Initial is the character shown in place of a missing logo.
func (s Store) Initial() string {
	for _, r := range s.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Coupon keeps the store name and logo as they were when the coupon was written.
// Renaming a store does not rewrite its coupons.
type Coupon struct {
	ID           string       `db:"id" json:"id"`
	StoreID      string       `db:"store_id" json:"storeId"`
	StoreName    string       `db:"store_name" json:"storeName"`
	StoreLogoURL string       `db:"store_logo_url" json:"storeLogoUrl,omitempty"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description,omitempty"`
	Code         string       `db:"code" json:"-"`
	Discount     string       `db:"discount" json:"discount"`
	Link         string       `db:"link" json:"link,omitempty"`
	Exclusive    bool         `db:"exclusive" json:"exclusive"`
	ExpiryDate   string       `db:"expiry_date" json:"expiryDate,omitempty"`
	Clicks       int          `db:"clicks" json:"-"`
	CreatedAt    sql.NullTime `db:"created_at" json:"-"`
	UpdatedAt    sql.NullTime `db:"updated_at" json:"-"`
}

func (c Coupon) RecordType() string   { return KindCoupon }
func (c Coupon) PrimaryText() string  { return c.Title }
func (c Coupon) CategoryText() string { return "" }
func (c Coupon) ExpiryText() string   { return c.ExpiryDate }
func (c Coupon) Created() time.Time {
	if c.CreatedAt.Valid {
		return c.CreatedAt.Time
	}
	return time.Time{}
}

// HasCode reports whether the coupon uses the reveal-code flow rather than a deal link.
func (c Coupon) HasCode() bool { return strings.TrimSpace(c.Code) != "" }

// SearchHit is a store or a coupon returned by a search, tagged by Type.
type SearchHit struct {
	Type   string  `json:"type"`
	Store  *Store  `json:"store,omitempty"`
	Coupon *Coupon `json:"coupon,omitempty"`
}

func StoreHit(s Store) SearchHit   { return SearchHit{Type: KindStore, Store: &s} }
func CouponHit(c Coupon) SearchHit { return SearchHit{Type: KindCoupon, Coupon: &c} }

func (h SearchHit) RecordType() string { return h.Type }

func (h SearchHit) PrimaryText() string {
	if h.Store != nil {
		return h.Store.Name
	}
	if h.Coupon != nil {
		return h.Coupon.Title
	}
	return ""
}

func (h SearchHit) CategoryText() string {
	if h.Store != nil {
		return h.Store.Category
	}
	return ""
}

func (h SearchHit) ExpiryText() string {
	if h.Coupon != nil {
		return h.Coupon.ExpiryDate
	}
	return ""
}

func (h SearchHit) Created() time.Time {
	switch {
	case h.Store != nil:
		return h.Store.Created()
	case h.Coupon != nil:
		return h.Coupon.Created()
	}
	return time.Time{}
}

type Category struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Slug         string       `db:"slug" json:"slug"`
	Description  string       `db:"description" json:"description,omitempty"`
	IconURL      string       `db:"icon_url" json:"iconUrl,omitempty"`
	DisplayOrder int          `db:"display_order" json:"displayOrder"`
	CreatedAt    sql.NullTime `db:"created_at" json:"-"`
	UpdatedAt    sql.NullTime `db:"updated_at" json:"-"`
}

type Review struct {
	ID         string    `db:"id"`
	StoreID    string    `db:"store_id"`
	StoreName  string    `db:"store_name"`
	Rating     int       `db:"rating"`
	Title      string    `db:"title"`
	Comment    string    `db:"comment"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Helpful    int       `db:"helpful"`
	NotHelpful int       `db:"not_helpful"`
	CreatedAt  time.Time `db:"created_at"`
}

// Article is a saving guide imported from an editorial feed.
type Article struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Link        string    `db:"link"`
	Summary     string    `db:"summary"`
	Source      string    `db:"source"`
	Category    string    `db:"category"`
	PublishedAt time.Time `db:"published_at"`
	ImportedAt  time.Time `db:"imported_at"`
}

// SavedCoupon is a coupon bookmarked by a signed-in user.
type SavedCoupon struct {
	CouponID   string `db:"coupon_id"`
	Title      string `db:"title"`
	StoreName  string `db:"store_name"`
	Code       string `db:"code"`
	ExpiryDate string `db:"expiry_date"`
}
