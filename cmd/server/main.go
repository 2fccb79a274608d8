package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saasbase/saasbase/core"
	"github.com/saasbase/saasbase/modules/auth"
	"github.com/saasbase/saasbase/modules/paymentmethod"
	"github.com/saasbase/saasbase/modules/tenantadmin"
	"github.com/saasbase/saasbase/pkg/config"
	"github.com/saasbase/saasbase/pkg/httpserver"
	"github.com/saasbase/saasbase/pkg/jwt"
	"github.com/saasbase/saasbase/pkg/logger"
	"github.com/saasbase/saasbase/pkg/pg"
	"github.com/saasbase/saasbase/pkg/redis"
	"github.com/saasbase/saasbase/pkg/requestid"
	"github.com/saasbase/saasbase/pkg/tenant"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		cfg      appConfig
		pgCfg    pg.Config
		httpCfg  httpserver.Config
		redisCfg redis.Config
	)
	config.MustLoad(&cfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&redisCfg)

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, "saasbase"),
		logger.WithContextExtractors(tenant.LoggerExtractor(), requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	// Central database: tenant directory and user accounts.
	central, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to central database", logger.Error(err))
		return err
	}
	defer central.Close()

	if err := pg.Migrate(ctx, central, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "failed to migrate central database", logger.Error(err))
		return err
	}

	// Route cache: Redis when configured, in-process otherwise.
	var routes tenant.RouteCache
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.ErrorContext(ctx, "failed to connect to redis", logger.Error(err))
			return err
		}
		defer client.Close()
		routes = tenant.NewRedisRouteCache(client, "", log)
	} else {
		routes = tenant.NewMemoryRouteCache()
	}
	defer routes.Close()

	// Tenant resolution pipeline.
	directory := tenant.NewDirectory(central, log)
	conns := tenant.NewConnCache(
		tenant.PoolConnector(cfg.PoolSize, cfg.PoolOverflow),
		tenant.WithConnCacheLogger(log),
	)
	defer conns.Close()

	resolver := tenant.NewResolver(cfg.BaseDomain, directory, conns,
		tenant.WithRouteCache(routes, cfg.RouteCacheTTL),
		tenant.WithResolverLogger(log),
	)

	// Authentication against the central user store.
	accessJWT, err := jwt.NewFromString(cfg.JWTAccessSecret)
	if err != nil {
		return err
	}
	refreshJWT, err := jwt.NewFromString(cfg.JWTRefreshSecret)
	if err != nil {
		return err
	}
	authSvc := auth.NewService(auth.NewStorage(central), accessJWT, refreshJWT,
		auth.WithTokenTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		auth.WithLogger(log),
	)

	// Tenant provisioning and lifecycle management.
	provisioner := tenantadmin.NewProvisioner(central, cfg.TenantMigrationsPath, log)
	adminSvc := tenantadmin.NewService(tenantadmin.NewStorage(central), provisioner, cfg.targetFor,
		tenantadmin.WithRouteCache(routes),
		tenantadmin.WithPoolEvictor(conns),
		tenantadmin.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestid.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(pg.Healthcheck(central)))

	// Bare-domain APIs: authentication and tenant management.
	r.Mount("/auth", auth.Router(authSvc))
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authSvc))
		r.Mount("/tenants", tenantadmin.Router(adminSvc))
	})

	// Subdomain APIs: every request runs against the tenant's own database.
	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(resolver))
		r.Use(tenant.RequireTenant(nil))
		r.Mount("/payment-methods", paymentmethod.Router(resolver, paymentmethod.NewStore()))
	})

	srv := httpserver.New(httpCfg, log)
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "http server failed", logger.Error(err))
		return err
	}
	return nil
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			core.RespondError(w, core.ErrServiceUnavailable)
			return
		}
		core.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
