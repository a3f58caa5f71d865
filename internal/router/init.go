package router

import (
	"github.com/podtrail/podtrail-api/internal/application"
	"github.com/podtrail/podtrail-api/internal/container"
	pginfra "github.com/podtrail/podtrail-api/internal/infrastructure/postgres"
	handlers "github.com/podtrail/podtrail-api/internal/interface/http"
	"github.com/podtrail/podtrail-api/internal/router/modules"
)

// InitModules builds all feature modules from container singletons and adds
// them to the registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	podcastRepo := pginfra.NewPodcastRepository(pool)
	episodeRepo := pginfra.NewEpisodeRepository(pool)

	accountSvc := application.NewAccountService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		cfg,
	)
	catalogSvc := application.NewCatalogService(
		podcastRepo,
		episodeRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESPodcastsIndex,
		container.GetLogger(),
	)

	accountHandler := handlers.NewAccountHandler(accountSvc, container.GetJWT(), container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, container.GetLogger())
	authHandler := handlers.NewAuthHandler(userRepo, container.GetRedis(), container.GetLogger(), cfg, container.GetRabbitPub())

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewCatalogModule(catalogHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
