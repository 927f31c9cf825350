package handlers_test

import (
	"encoding/json"
	"html"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"couponhub/internal/domain"
	"couponhub/internal/listquery"
)

func newCatalogEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newEnv(t)
	d := env.deps
	env.app.Get("/", d.HomeHandler.Home)
	env.app.Get("/stores", d.StoreHandler.Directory)
	env.app.Get("/store/:id", d.StoreHandler.Detail)
	env.app.Post("/store/:id/reviews", d.StoreHandler.SubmitReview)
	env.app.Post("/reviews/:id/vote", d.StoreHandler.Vote)
	env.app.Get("/coupons", d.CouponHandler.List)
	env.app.Post("/coupons/:id/reveal", d.CouponHandler.Reveal)
	env.app.Get("/search", d.SearchHandler.Results)
	env.app.Get("/guides", d.GuideHandler.List)
	env.app.Get("/article/:id", d.GuideHandler.Article)
	api := env.app.Group("/api/v1")
	api.Get("/stores", d.APIHandler.Stores)
	api.Get("/coupons", d.APIHandler.Coupons)
	api.Get("/search", d.APIHandler.SearchHits)
	return env
}

func TestPublicPagesRender(t *testing.T) {
	env := newCatalogEnv(t)
	cases := []struct {
		path string
		want string
	}{
		{"/", "Latest coupons"},
		{"/stores", "Stores A-Z"},
		{"/stores?letter=N", "Nike"},
		{"/stores?category=Electronics", "Best Buy"},
		{"/store/st-nike", "25% Off for Members"},
		{"/coupons?sort=discount", "Up to 50% Off Clearance"},
		{"/search", "Search"},
		{"/search?q=Nike", "Nike"},
		{"/guides", "Saving guides"},
	}
	for _, tc := range cases {
		resp := env.get(t, tc.path, "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tc.path, resp.StatusCode)
			continue
		}
		if s := body(t, resp); !strings.Contains(s, tc.want) {
			t.Errorf("%s: expected %q in page", tc.path, tc.want)
		}
	}
}

func TestStoreDirectoryLetterBucket(t *testing.T) {
	env := newCatalogEnv(t)
	s := body(t, env.get(t, "/stores?letter=A", ""))
	if !strings.Contains(s, "Amazon") || !strings.Contains(s, "Adidas") {
		t.Fatal("letter A should list Amazon and Adidas")
	}
	if strings.Contains(s, ">Walmart<") {
		t.Fatal("letter A should not list Walmart")
	}
}

func TestFilterLinksResetPageButSortKeepsIt(t *testing.T) {
	env := newCatalogEnv(t)

	stores := html.UnescapeString(body(t, env.get(t, "/stores?letter=B&page=2", "")))
	for _, href := range []string{`href="/stores?letter=A"`, `href="/stores"`, `href="/stores?letter=B"`} {
		if !strings.Contains(stores, href) {
			t.Fatalf("stores page missing %s", href)
		}
	}
	if strings.Contains(stores, "letter=A&page=2") || strings.Contains(stores, "page=2&letter=A") {
		t.Fatal("letter links should go back to page 1")
	}

	search := html.UnescapeString(body(t, env.get(t, "/search?q=Nike&page=2", "")))
	if !strings.Contains(search, `href="/search?page=2&q=Nike&sort=name"`) {
		t.Fatal("sort links should keep the current page")
	}
	if !strings.Contains(search, `href="/search?q=Nike&tab=store"`) {
		t.Fatal("tab links should go back to page 1")
	}
}

func TestSearchTermKeepsTrailingSpace(t *testing.T) {
	env := newCatalogEnv(t)

	total := func(q string) int {
		var hits listquery.Result[domain.SearchHit]
		resp := env.get(t, "/api/v1/search?tab=store&q="+url.QueryEscape(q), "")
		if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
			t.Fatalf("decode search %q: %v", q, err)
		}
		return hits.Total
	}
	if got := total("Best "); got != 1 {
		t.Fatalf(`"Best " expected Best Buy only, got %d`, got)
	}
	if got := total("Best  "); got != 0 {
		t.Fatalf(`"Best  " expected no stores, got %d`, got)
	}
}

func TestRevealCountsClickAndHidesCodeFromLists(t *testing.T) {
	env := newCatalogEnv(t)
	if s := body(t, env.get(t, "/store/st-nike", "")); strings.Contains(s, "MEMBER25") {
		t.Fatal("coupon code must not be printed before reveal")
	}
	tok := env.csrfToken(t)

	resp := env.post(t, "/coupons/st-nike-members25/reveal", tok, "", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reveal expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		ID      string `json:"id"`
		Code    string `json:"code"`
		HasCode bool   `json:"hasCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Code != "MEMBER25" || !got.HasCode {
		t.Fatalf("unexpected reveal payload: %+v", got)
	}
	var clicks int
	if err := env.db.Get(&clicks, `SELECT clicks FROM coupons WHERE id = 'st-nike-members25'`); err != nil {
		t.Fatal(err)
	}
	if clicks != 1 {
		t.Fatalf("expected 1 click, got %d", clicks)
	}

	if miss := env.post(t, "/coupons/nope/reveal", tok, "", url.Values{}); miss.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown coupon expected 404, got %d", miss.StatusCode)
	}
}

func TestAPIReturnsListResults(t *testing.T) {
	env := newCatalogEnv(t)

	var stores listquery.Result[domain.Store]
	resp := env.get(t, "/api/v1/stores?letter=A", "")
	if err := json.NewDecoder(resp.Body).Decode(&stores); err != nil {
		t.Fatalf("decode stores: %v", err)
	}
	if stores.Total != 2 || len(stores.Visible) != 2 {
		t.Fatalf("letter A expected 2 stores, got %+v", stores)
	}

	var coupons listquery.Result[domain.Coupon]
	resp = env.get(t, "/api/v1/coupons?type=free", "")
	if err := json.NewDecoder(resp.Body).Decode(&coupons); err != nil {
		t.Fatalf("decode coupons: %v", err)
	}
	if coupons.Total != 8 {
		t.Fatalf("free coupons expected 8, got %d", coupons.Total)
	}
	for _, c := range coupons.Visible {
		if c.Code != "" {
			t.Fatal("API must not expose coupon codes")
		}
	}

	var hits listquery.Result[domain.SearchHit]
	resp = env.get(t, "/api/v1/search?q=Nike&tab=store", "")
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if hits.Total != 1 || hits.Visible[0].Store == nil || hits.Visible[0].Store.ID != "st-nike" {
		t.Fatalf("unexpected search hits: %+v", hits)
	}

	if bad := env.get(t, "/api/v1/stores?sort=price", ""); bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad sort expected 400, got %d", bad.StatusCode)
	}
}

func TestReviewSubmitAndVote(t *testing.T) {
	env := newCatalogEnv(t)
	tok := env.csrfToken(t)

	form := url.Values{
		"rating": {"4"}, "title": {"Fast shipping"}, "comment": {"Code worked on my first order."},
		"name": {"Dana"}, "email": {"dana@example.com"},
	}
	resp := env.post(t, "/store/st-target/reviews", tok, "", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("review expected redirect, got %d body=%s", resp.StatusCode, body(t, resp))
	}
	s := body(t, env.get(t, "/store/st-target", ""))
	if !strings.Contains(s, "Fast shipping") || !strings.Contains(s, "4.0 / 5 from 1 reviews") {
		t.Fatal("review or rating summary missing from store page")
	}

	var id string
	if err := env.db.Get(&id, `SELECT id FROM reviews WHERE store_id = 'st-target'`); err != nil {
		t.Fatal(err)
	}
	vote := env.post(t, "/reviews/"+id+"/vote", tok, "", url.Values{"helpful": {"yes"}})
	if vote.StatusCode != http.StatusFound || vote.Header.Get("Location") != "/store/st-target#reviews" {
		t.Fatalf("vote expected redirect to store, got %d %q", vote.StatusCode, vote.Header.Get("Location"))
	}

	form.Set("rating", "9")
	if bad := env.post(t, "/store/st-target/reviews", tok, "", form); bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("rating out of range expected 400, got %d", bad.StatusCode)
	}
}
