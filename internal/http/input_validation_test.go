package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestValidationBadInputs(t *testing.T) {
	env := newEnv(t)
	env.app.Get("/search", env.deps.SearchHandler.Results)
	env.app.Get("/stores", env.deps.StoreHandler.Directory)
	env.app.Get("/coupons", env.deps.CouponHandler.List)
	env.app.Get("/api/v1/coupons", env.deps.APIHandler.Coupons)

	cases := []struct {
		path string
		want int
	}{
		{"/search?q=%3Cscript%3E", http.StatusBadRequest},
		{"/stores?letter=AB", http.StatusBadRequest},
		{"/stores?letter=%2A", http.StatusBadRequest},
		{"/coupons?type=bogus", http.StatusBadRequest},
		{"/coupons?min=150", http.StatusBadRequest},
		{"/api/v1/coupons?expiry=decade", http.StatusBadRequest},
		{"/stores?letter=A", http.StatusOK},
		{"/coupons?type=free&expiry=week", http.StatusOK},
	}
	for _, tc := range cases {
		if resp := env.get(t, tc.path, ""); resp.StatusCode != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.want, resp.StatusCode)
		}
	}
}

func TestTemplateAutoEscape(t *testing.T) {
	env := newEnv(t)
	env.app.Get("/store/:id", env.deps.StoreHandler.Detail)
	_, err := env.db.Exec(`
		INSERT INTO stores(id,name,description,category)
		VALUES('xss-1','<script>alert(1)</script>','<b>desc</b>','Other')
	`)
	if err != nil {
		t.Fatalf("insert store: %v", err)
	}

	resp := env.get(t, "/store/xss-1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	s := body(t, resp)
	if strings.Contains(s, "<script>alert(1)</script>") || strings.Contains(s, "<b>desc</b>") {
		t.Fatalf("found unescaped markup in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}

func TestUnknownStoreIs404(t *testing.T) {
	env := newEnv(t)
	env.app.Get("/store/:id", env.deps.StoreHandler.Detail)

	resp := env.get(t, "/store/st-missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "no longer available") {
		t.Fatal("expected friendly not-found message")
	}
}
