package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"couponhub/internal/repos"
)

// Seeded accounts store bcrypt hashes, never the plaintext password.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestSigninSuccessFailAndThrottle(t *testing.T) {
	env := newEnv(t)
	env.app.Post("/signin", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), env.deps.AuthHandler.Signin)
	tok := env.csrfToken(t)

	bad := env.post(t, "/signin", tok, "", url.Values{"email": {"alice@couponhub.test"}, "password": {"wrongpass!"}})
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", bad.StatusCode)
	}
	if !strings.Contains(body(t, bad), "Invalid email or password") {
		t.Fatal("sign-in form should explain the failure")
	}

	good := env.post(t, "/signin", tok, "", url.Values{"email": {"alice@couponhub.test"}, "password": {"Passw0rd!"}})
	if good.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", good.StatusCode)
	}
	if loc := good.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("user should land on /dashboard, got %q", loc)
	}
	if cookieValue(good, "sid") == "" {
		t.Fatal("session cookie not issued")
	}

	third := env.post(t, "/signin", tok, "", url.Values{"email": {"alice@couponhub.test"}, "password": {"wrongpass!"}})
	if third.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", third.StatusCode)
	}
}

func TestSigninRotatesSessionAndAdminLandsOnAdmin(t *testing.T) {
	env := newEnv(t)
	env.app.Post("/signin", env.deps.AuthHandler.Signin)
	tok := env.csrfToken(t)

	form := url.Values{"email": {"admin@couponhub.test"}, "password": {"Passw0rd!"}}
	resp := env.post(t, "/signin", tok, "sid-planted", form)
	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("admin should land on /admin, got %q", loc)
	}
	sid := cookieValue(resp, "sid")
	if sid == "" || sid == "sid-planted" {
		t.Fatalf("sign-in must issue a fresh session id, got %q", sid)
	}
	if u, err := env.auth.CurrentUser(t.Context(), "sid-planted"); err == nil && u != nil {
		t.Fatal("planted session id must not be signed in")
	}
}

func TestJoinCreatesAccountAndRejectsDuplicates(t *testing.T) {
	env := newEnv(t)
	env.app.Post("/join", env.deps.AuthHandler.Join)
	tok := env.csrfToken(t)

	form := url.Values{
		"name": {"Carol"}, "email": {"carol@couponhub.test"},
		"password": {"Sup3rSecret!"}, "confirm": {"Sup3rSecret!"},
	}
	resp := env.post(t, "/join", tok, "", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("join expected redirect, got %d body=%s", resp.StatusCode, body(t, resp))
	}
	sid := cookieValue(resp, "sid")
	u, err := env.auth.CurrentUser(t.Context(), sid)
	if err != nil || u == nil || u.Email != "carol@couponhub.test" {
		t.Fatalf("new account should be signed in, got %+v err=%v", u, err)
	}

	dup := env.post(t, "/join", tok, "", form)
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email expected 409, got %d", dup.StatusCode)
	}

	form.Set("confirm", "different")
	mismatch := env.post(t, "/join", tok, "", form)
	if mismatch.StatusCode != http.StatusBadRequest {
		t.Fatalf("password mismatch expected 400, got %d", mismatch.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := newEnv(t)
	env.app.Post("/logout", env.deps.AuthHandler.Logout)
	env.bind(t, "sid-alice", "u-alice")
	tok := env.csrfToken(t)

	resp := env.post(t, "/logout", tok, "sid-alice", url.Values{})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("logout expected redirect, got %d", resp.StatusCode)
	}
	if u, err := env.auth.CurrentUser(t.Context(), "sid-alice"); err == nil && u != nil {
		t.Fatal("session still signed in after logout")
	}
}
