package main

import (
	"strings"
	"time"
)

// appConfig holds the tenant routing and token settings. Database, HTTP
// and Redis settings load through their own packages' config structs.
type appConfig struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	BaseDomain string `env:"APP_BASE_DOMAIN" envDefault:"localhost"`

	// TenantDBBaseURL is the cluster URL tenant database names are
	// appended to, e.g. postgres://tenants:secret@db:5432
	TenantDBBaseURL string `env:"TENANT_DATABASE_BASE_URL,required"`
	PoolSize        int32  `env:"TENANT_POOL_SIZE" envDefault:"5"`
	PoolOverflow    int32  `env:"TENANT_POOL_OVERFLOW" envDefault:"10"`

	TenantMigrationsPath string        `env:"TENANT_MIGRATIONS_PATH" envDefault:"migrations/tenant"`
	RouteCacheTTL        time.Duration `env:"TENANT_ROUTE_CACHE_TTL" envDefault:"5m"`

	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL   time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL  time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// targetFor maps a tenant database name to its full connection URL.
func (c appConfig) targetFor(dbName string) string {
	return strings.TrimRight(c.TenantDBBaseURL, "/") + "/" + dbName
}
