// cmd/web/main.go
//
// Prepdesk – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Optional Vault client (only when VAULT_ADDR is set).
//
//  2. Load config: conf/.env → conf/global.yaml → PREPDESK_* env
//     overrides, with `vault:` secret references resolved in between.
//
//  3. Start the daily rotating logger (tees to console in a TTY).
//
//  4. Open the MySQL pool (fixed size, pinged before use) and construct
//     the repositories, auth service, session manager, accessor, and
//     role gate.  No package-level singletons: everything is built here
//     and injected.
//
//  5. Build the router: request enrichment → security headers →
//     /metrics, /api/*, and the gated page tree.
//
//  6. Serve with hardened timeouts; SIGINT/SIGTERM drains in-flight
//     requests before the pool is closed.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/prepdesk/prepdesk/internal/api"
	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/config"
	"github.com/prepdesk/prepdesk/internal/database"
	"github.com/prepdesk/prepdesk/internal/gate"
	"github.com/prepdesk/prepdesk/internal/inbox"
	"github.com/prepdesk/prepdesk/internal/logger"
	"github.com/prepdesk/prepdesk/internal/middleware"
	"github.com/prepdesk/prepdesk/internal/requestinfo"
	"github.com/prepdesk/prepdesk/internal/server"
	"github.com/prepdesk/prepdesk/internal/session"
	"github.com/prepdesk/prepdesk/internal/user"
	"github.com/prepdesk/prepdesk/internal/vault"
	"github.com/prepdesk/prepdesk/internal/web"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets + config ────────────────────────────────────────────
	//
	var secrets *vault.Client
	if os.Getenv("VAULT_ADDR") != "" {
		var err error
		if secrets, err = vault.New(); err != nil {
			log.Fatalf("vault client: %v", err)
		}
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	zlog, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer zlog.Sync()

	//
	// ── 3.  Credential store ────────────────────────────────────────────
	//
	zlog.Infow("connecting to MySQL", "host", cfg.Database.Host, "pool", cfg.Database.PoolSize)
	db, err := database.Open(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Name, cfg.Database.PoolSize,
	)
	if err != nil {
		zlog.Fatalw("connect MySQL", "err", err)
	}
	defer db.Close()
	zlog.Infow("credential store online")

	//
	// ── 4.  Wiring ──────────────────────────────────────────────────────
	//
	resolver, err := requestinfo.NewResolver(cfg.Geo.CityDB)
	if err != nil {
		zlog.Fatalw("open geo database", "path", cfg.Geo.CityDB, "err", err)
	}
	defer resolver.Close()

	users := user.NewRepository(db)
	box := inbox.NewRepository(db)
	authSvc := auth.NewService(users, zlog)
	sessions := session.NewManager(cfg.Session.CookieName, []byte(cfg.Session.Key))
	accessor := session.NewAccessor(cfg.HTTP.BaseURL)
	roleGate := gate.New(accessor)

	apiHandler := api.New(authSvc, sessions, box, config.Validator(), zlog)
	pages := web.New(accessor, roleGate, box, zlog)

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(resolver.Enrich)
	r.Use(middleware.Security)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api", apiHandler.Routes())
	r.Mount("/", pages.Routes())

	//
	// ── 6.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zlog.Infow("shutting down")
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Fatalw("http server", "err", err)
	}
	zlog.Infow("goodbye")
}
