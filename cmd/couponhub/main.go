package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"couponhub/internal/config"
	"couponhub/internal/http/handlers"
	applog "couponhub/internal/log"
	"couponhub/internal/repos"
	"couponhub/internal/services"
)

// setup loads config, tees the log file and opens the database.
func setup(cmd *cli.Command) (config.Config, *sqlx.DB, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	applog.SetLevel(cfg.Level())

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open db: %w", err)
	}
	return cfg, db, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := cfg.CheckDirs(); err != nil {
		return err
	}

	authSvc := services.NewAuthService(repos.NewUserRepo(db))
	if cfg.AdminEmail != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			applog.Logger().Info("admin.bootstrap", "email", cfg.AdminEmail)
		}
	}

	deps := handlers.NewDeps(db, cfg, authSvc)
	return run(ctx, newApp(cfg, authSvc, deps), cfg.Port)
}

func seed(ctx context.Context, cmd *cli.Command) error {
	_, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	// OpenDB already seeds an empty catalog.
	if !cmd.Bool("reset") {
		log.Println("[seed] catalog ready")
		return nil
	}
	if err := repos.Reseed(ctx, db); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	log.Println("[seed] catalog reset to fixtures")
	return nil
}

func importGuides(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := handlers.NewDeps(db, cfg, services.NewAuthService(repos.NewUserRepo(db)))
	rep, err := deps.Guides.Import(ctx)
	if err != nil {
		return fmt.Errorf("import guides: %w", err)
	}
	for _, ferr := range rep.Failed {
		applog.Logger().Warn("guides.import.feed_fail", "err", ferr.Error())
	}
	log.Printf("[guides] imported %d articles, %d feeds failed", rep.Imported, len(rep.Failed))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "couponhub",
		Usage:  "Coupon and deals website: store directory, coupon codes, search and admin",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults to ./config.yaml when present)",
				Sources: cli.EnvVars("COUPONHUB_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web server",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "Load the demo catalog into an empty database",
				Action: seed,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reset", Usage: "Wipe stores, coupons, categories, reviews and saves first"},
				},
			},
			{
				Name:   "import-guides",
				Usage:  "Fetch the configured saving-guide feeds once",
				Action: importGuides,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		applog.Logger().Error("application error", "err", err.Error())
		os.Exit(1)
	}
}
