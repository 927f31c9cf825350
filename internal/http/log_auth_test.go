package handlers_test

import (
	"net/url"
	"testing"
)

func TestAuthLogging(t *testing.T) {
	env := newEnv(t)
	env.app.Post("/signin", env.deps.AuthHandler.Signin)
	env.app.Post("/logout", env.deps.AuthHandler.Logout)
	tok := env.csrfToken(t)

	signin := func(email, pass string) []logEntry {
		return captureLogs(t, func() {
			_ = env.post(t, "/signin", tok, "", url.Values{"email": {email}, "password": {pass}})
		})
	}

	fail, ok := findLog(signin("alice@couponhub.test", "Wr0ngPass!"), "auth.login.fail")
	if !ok {
		t.Fatalf("auth.login.fail log not found")
	}
	if _, ok := fail.Fields["email"]; !ok {
		t.Fatalf("auth.login.fail missing email field")
	}

	badFormat, ok := findLog(signin("not-an-email", "Passw0rd!"), "auth.login.fail")
	if !ok || badFormat.Fields["reason"] != "bad_format" {
		t.Fatalf("malformed email should log reason bad_format, got %+v", badFormat)
	}

	success, ok := findLog(signin("alice@couponhub.test", "Passw0rd!"), "auth.login.success")
	if !ok {
		t.Fatalf("auth.login.success log not found")
	}
	if success.Level != "audit" {
		t.Fatalf("auth.login.success should log at audit, got %q", success.Level)
	}

	env.bind(t, "sid-out", "u-alice")
	entries := captureLogs(t, func() {
		_ = env.post(t, "/logout", tok, "sid-out", url.Values{})
	})
	if _, ok := findLog(entries, "auth.logout"); !ok {
		t.Fatalf("auth.logout log not found")
	}
}
