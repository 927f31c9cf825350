package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"couponhub/internal/domain"
	"couponhub/internal/repos"
)

func openSeeded(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedCatalog(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()

	stores, err := repos.NewStoreRepo(db).List(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(stores) != 8 {
		t.Fatalf("want 8 seeded stores, got %d", len(stores))
	}
	if stores[0].Name != "Adidas" {
		t.Fatalf("want stores ordered by name, first=%q", stores[0].Name)
	}
	for _, s := range stores {
		if !s.CreatedAt.Valid {
			t.Fatalf("store %s has no created_at", s.ID)
		}
	}

	coupons, err := repos.NewCouponRepo(db).ByStore(ctx, "st-amazon")
	if err != nil {
		t.Fatal(err)
	}
	if len(coupons) != 3 {
		t.Fatalf("want 3 amazon coupons, got %d", len(coupons))
	}
	for _, c := range coupons {
		if c.StoreName != "Amazon" || c.StoreLogoURL == "" {
			t.Fatalf("coupon %s missing denormalised store fields: %+v", c.ID, c)
		}
	}

	// reseeding replaces the catalog instead of appending to it
	if err := repos.Reseed(ctx, db); err != nil {
		t.Fatal(err)
	}
	n, _ := repos.NewStoreRepo(db).Count(ctx)
	if n != 8 {
		t.Fatalf("reseed: want 8 stores, got %d", n)
	}
}

func TestSearchPrefixIsCaseSensitive(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	stores := repos.NewStoreRepo(db)

	hits, err := stores.SearchPrefix(ctx, "Ama")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "Amazon" {
		t.Fatalf("want [Amazon], got %+v", hits)
	}

	hits, err = stores.SearchPrefix(ctx, "ama")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("lower-case prefix should not match, got %+v", hits)
	}

	coupons, err := repos.NewCouponRepo(db).SearchPrefix(ctx, "Free")
	if err != nil {
		t.Fatal(err)
	}
	if len(coupons) != 8 {
		t.Fatalf("want one free-shipping coupon per store, got %d", len(coupons))
	}
}

func TestCategoryConflictAndNotFound(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	cats := repos.NewCategoryRepo(db)

	err := cats.Create(ctx, &domain.Category{Name: "fashion", Slug: "fashion"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict for duplicate name, got %v", err)
	}
	if _, err := cats.Get(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := cats.Delete(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound on delete, got %v", err)
	}

	list, err := cats.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Name != "Fashion" || list[len(list)-1].Name != "Other" {
		t.Fatalf("want display order, got first=%q last=%q", list[0].Name, list[len(list)-1].Name)
	}
}

func TestDeleteStoreRemovesCouponsAndSaves(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	saved := repos.NewSavedRepo(db)

	if err := saved.Add(ctx, "u-alice", "st-nike-save20"); err != nil {
		t.Fatal(err)
	}
	if err := repos.NewStoreRepo(db).Delete(ctx, "st-nike"); err != nil {
		t.Fatal(err)
	}
	left, err := repos.NewCouponRepo(db).ByStore(ctx, "st-nike")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("coupons left after store delete: %d", len(left))
	}
	items, err := saved.List(ctx, "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("saved coupons left after store delete: %+v", items)
	}
}

func TestClicksAndTop(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	coupons := repos.NewCouponRepo(db)

	for i := 0; i < 3; i++ {
		if err := coupons.IncrementClicks(ctx, "st-target-save20"); err != nil {
			t.Fatal(err)
		}
	}
	if err := coupons.IncrementClicks(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	top, err := coupons.Top(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].ID != "st-target-save20" || top[0].Clicks != 3 {
		t.Fatalf("unexpected top coupon: %+v", top)
	}
	total, _ := coupons.TotalClicks(ctx)
	if total != 3 {
		t.Fatalf("want 3 clicks total, got %d", total)
	}
}

func TestReviewsNewestFirstAndVotes(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	reviews := repos.NewReviewRepo(db)

	first := &domain.Review{StoreID: "st-amazon", StoreName: "Amazon", Rating: 4, Title: "Good", Comment: "Fast delivery", Name: "A", Email: "a@x.com"}
	second := &domain.Review{StoreID: "st-amazon", StoreName: "Amazon", Rating: 2, Title: "Meh", Comment: "Late order", Name: "B", Email: "b@x.com"}
	if err := reviews.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := reviews.Create(ctx, second); err != nil {
		t.Fatal(err)
	}
	if err := reviews.Vote(ctx, first.ID, true); err != nil {
		t.Fatal(err)
	}

	list, err := reviews.ByStore(ctx, "st-amazon", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("want newest first, got %+v", list)
	}
	if list[1].Helpful != 1 {
		t.Fatalf("want 1 helpful vote, got %d", list[1].Helpful)
	}
}

func TestArticleUpsert(t *testing.T) {
	db := openSeeded(t)
	ctx := context.Background()
	articles := repos.NewArticleRepo(db)

	pub := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := domain.Article{ID: "a1", Title: "Old", Link: "https://x/1", Source: "Blog", PublishedAt: pub, ImportedAt: pub}
	if err := articles.Upsert(ctx, a); err != nil {
		t.Fatal(err)
	}
	a.Title = "New"
	if err := articles.Upsert(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, err := articles.Get(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || !got.PublishedAt.Equal(pub) {
		t.Fatalf("unexpected article: %+v", got)
	}
	list, _ := articles.List(ctx, 0)
	if len(list) != 1 {
		t.Fatalf("want 1 article, got %d", len(list))
	}
}
