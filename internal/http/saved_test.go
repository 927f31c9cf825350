package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"couponhub/internal/http/handlers"
)

func TestSaveAndUnsaveCoupon(t *testing.T) {
	env := newEnv(t)
	user := handlers.RequireUser(env.auth)
	env.app.Get("/dashboard", user, env.deps.SavedHandler.Dashboard)
	env.app.Post("/saved", user, env.deps.SavedHandler.Save)
	env.app.Post("/saved/delete", user, env.deps.SavedHandler.Unsave)
	env.bind(t, "sid-alice", "u-alice")
	tok := env.csrfToken(t)

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = env.post(t, "/saved", tok, "sid-alice", url.Values{"couponId": {"st-walmart-grocery10"}})
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("save expected redirect, got %d", resp.StatusCode)
	}
	if _, ok := findLog(entries, "saved.save"); !ok {
		t.Fatal("saved.save log not found")
	}

	page := body(t, env.get(t, "/dashboard", "sid-alice"))
	if !strings.Contains(page, "$10 Off Your First Grocery Pickup") || !strings.Contains(page, "PICKUP10") {
		t.Fatal("saved coupon missing from dashboard")
	}

	if miss := env.post(t, "/saved", tok, "sid-alice", url.Values{"couponId": {"nope"}}); miss.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown coupon expected 404, got %d", miss.StatusCode)
	}

	env.post(t, "/saved/delete", tok, "sid-alice", url.Values{"couponId": {"st-walmart-grocery10"}})
	if strings.Contains(body(t, env.get(t, "/dashboard", "sid-alice")), "PICKUP10") {
		t.Fatal("coupon still saved after unsave")
	}
}
