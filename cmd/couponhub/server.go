package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"couponhub/internal/config"
	"couponhub/internal/http/handlers"
	applog "couponhub/internal/log"
	"couponhub/internal/services"
)

func newApp(cfg config.Config, authSvc *services.AuthService, deps *handlers.Deps) *fiber.App {
	engine := handlers.Views(cfg.TemplatesDir)
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).SendString(fe.Message)
			}
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.LoadUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", cfg.StaticDir)
	routes(app, authSvc, deps)
	return app
}

func routes(app *fiber.App, authSvc *services.AuthService, deps *handlers.Deps) {
	// Public pages
	app.Get("/", deps.HomeHandler.Home)
	app.Get("/stores", deps.StoreHandler.Directory)
	app.Get("/store/:id", deps.StoreHandler.Detail)
	app.Post("/store/:id/reviews", deps.StoreHandler.SubmitReview)
	app.Post("/reviews/:id/vote", deps.StoreHandler.Vote)
	app.Get("/coupons", deps.CouponHandler.List)
	app.Post("/coupons/:id/reveal", deps.CouponHandler.Reveal)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Results)
	app.Get("/guides", deps.GuideHandler.List)
	app.Get("/article/:id", deps.GuideHandler.Article)

	// API
	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	api.Get("/stores", deps.APIHandler.Stores)
	api.Get("/coupons", deps.APIHandler.Coupons)
	api.Get("/search", deps.APIHandler.SearchHits)

	// Auth routes (sign-in throttled)
	app.Get("/signin", deps.AuthHandler.SigninForm)
	app.Post("/signin", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("signin", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Signin)
	app.Get("/join", deps.AuthHandler.JoinForm)
	app.Post("/join", deps.AuthHandler.Join)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Signed-in users
	user := handlers.RequireUser(authSvc)
	app.Get("/dashboard", user, deps.SavedHandler.Dashboard)
	app.Post("/saved", user, deps.SavedHandler.Save)
	app.Post("/saved/delete", user, deps.SavedHandler.Unsave)

	// Admin
	adminH := deps.AdminHandler
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", adminH.Dashboard)
	admin.Get("/analytics", adminH.AnalyticsPage)
	admin.Get("/stores", adminH.Stores)
	admin.Post("/stores", adminH.CreateStore)
	admin.Post("/stores/:id", adminH.UpdateStore)
	admin.Post("/stores/:id/delete", adminH.DeleteStore)
	admin.Get("/coupons", adminH.Coupons)
	admin.Post("/coupons", adminH.CreateCoupon)
	admin.Post("/coupons/:id", adminH.UpdateCoupon)
	admin.Post("/coupons/:id/delete", adminH.DeleteCoupon)
	admin.Get("/categories", adminH.Categories)
	admin.Post("/categories", adminH.CreateCategory)
	admin.Post("/categories/:id", adminH.UpdateCategory)
	admin.Post("/categories/:id/delete", adminH.DeleteCategory)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
}

// run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains requests.
func run(ctx context.Context, app *fiber.App, port string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[http] listening on :%s", port)
		return app.Listen(":" + port)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("[http] shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("[http] stopped")
	return nil
}
