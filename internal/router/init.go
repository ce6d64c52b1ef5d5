package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-service/config"
	appuser "github.com/oksasatya/go-ddd-user-service/internal/application"
	"github.com/oksasatya/go-ddd-user-service/internal/container"
	repouser "github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/events"
	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-user-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-service/internal/router/modules"
)

type UserModuleDeps struct {
	Repo          repouser.UserRepository
	Service       *appuser.Service
	Handler       *handlers.UserHandler
	SearchHandler *handlers.SearchHandler
}

// buildRepository picks the store and stacks the enabled decorators on it:
// events -> search index -> cache -> store.
func buildRepository(cfg *config.Config) (repouser.UserRepository, repouser.UserSearchIndex) {
	logger := container.GetLogger()

	var repo repouser.UserRepository
	if pool := container.GetPGPool(); cfg.StorageDriver == config.StoragePostgres && pool != nil {
		repo = pginfra.NewUserRepository(pool)
	} else {
		repo = memory.NewUserRepository()
	}

	if rdb := container.GetRedis(); cfg.CacheEnabled && rdb != nil {
		repo = cache.NewUserRepository(repo, rdb, cfg.CacheTTL, logger)
	}

	var index repouser.UserSearchIndex
	if es := container.GetES(); cfg.SearchEnabled && es != nil {
		index = search.NewESIndex(es, cfg.ESUsersIndex)
		repo = search.NewIndexingRepository(repo, index, logger)
	}

	if pub := container.GetRabbitPub(); cfg.EventsEnabled && pub != nil {
		repo = events.NewPublishingRepository(repo, pub, logger)
	}
	return repo, index
}

func buildUserDeps(cfg *config.Config) UserModuleDeps {
	logger := container.GetLogger()
	repo, index := buildRepository(cfg)

	service := appuser.NewService(repo, logger)
	deps := UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewUserHandler(service, logger),
	}
	if index != nil {
		deps.SearchHandler = handlers.NewSearchHandler(appuser.NewSearchService(index, logger), logger)
	}
	return deps
}

// exemptions lists the configured limiter bypasses. Both are opt-in: private
// peers are only safe to exempt when TRUSTED_PROXIES is set correctly.
func exemptions(cfg *config.Config) middleware.AllowFunc {
	var allow []middleware.AllowFunc
	if cfg.RateLimitExemptPrivate {
		allow = append(allow, middleware.AllowPrivateIP())
	}
	if paths := cfg.RateLimitExemptPathList(); len(paths) > 0 {
		allow = append(allow, middleware.AllowPaths(paths...))
	}
	if len(allow) == 0 {
		return nil
	}
	return middleware.AnyOf(allow...)
}

// rateLimiter limits each client across the whole user API.
func rateLimiter(cfg *config.Config) gin.HandlerFunc {
	rdb := container.GetRedis()
	if rdb == nil || cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	return middleware.RateLimit(rdb, cfg.RateLimitPerMinute, time.Minute,
		middleware.KeyByIP(), exemptions(cfg), container.GetLogger())
}

// writeLimiter limits each client per write route.
func writeLimiter(cfg *config.Config) gin.HandlerFunc {
	rdb := container.GetRedis()
	if rdb == nil || cfg.RateLimitWritesPerMinute <= 0 {
		return nil
	}
	return middleware.RateLimit(rdb, cfg.RateLimitWritesPerMinute, time.Minute,
		middleware.KeyByIPAndRoute(), exemptions(cfg), container.GetLogger())
}

// healthChecks splits checks into required ones, which fail /health, and
// optional ones that the service degrades around.
func healthChecks() (required, optional map[string]handlers.Check) {
	required, optional = map[string]handlers.Check{}, map[string]handlers.Check{}
	if pool := container.GetPGPool(); pool != nil {
		required["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		optional["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return required, optional
}

// InitModules builds every module from the container and adds it to r.
// Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	userDeps := buildUserDeps(cfg)

	users := modules.NewUserModule(userDeps.Handler, userDeps.SearchHandler, rateLimiter(cfg))
	users.WriteLimiter = writeLimiter(cfg)
	r.Add(users)
	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(healthChecks()), cfg.MetricsEnabled))
}
