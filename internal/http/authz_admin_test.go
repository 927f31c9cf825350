package handlers_test

import (
	"net/http"
	"testing"

	"couponhub/internal/http/handlers"
)

func TestAdminGuardRequiresAdmin(t *testing.T) {
	env := newEnv(t)
	admin := env.app.Group("/admin", handlers.RequireAdmin(env.auth))
	admin.Get("/", env.deps.AdminHandler.Dashboard)

	if resp := env.get(t, "/admin", ""); resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous expected redirect to sign in, got %d", resp.StatusCode)
	}

	env.bind(t, "sid-user", "u-alice")
	if resp := env.get(t, "/admin", "sid-user"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin expected 403, got %d", resp.StatusCode)
	}

	env.bind(t, "sid-admin", "u-admin")
	resp := env.get(t, "/admin", "sid-admin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", resp.StatusCode)
	}
}

func TestUserGuardRedirectsAnonymous(t *testing.T) {
	env := newEnv(t)
	env.app.Get("/dashboard", handlers.RequireUser(env.auth), env.deps.SavedHandler.Dashboard)

	resp := env.get(t, "/dashboard", "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/signin" {
		t.Fatalf("anonymous expected redirect to /signin, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	env.bind(t, "sid-user", "u-alice")
	if resp := env.get(t, "/dashboard", "sid-user"); resp.StatusCode != http.StatusOK {
		t.Fatalf("signed-in user expected 200, got %d", resp.StatusCode)
	}
}
