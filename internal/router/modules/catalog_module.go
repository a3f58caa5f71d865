package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podtrail/podtrail-api/internal/container"
	handlers "github.com/podtrail/podtrail-api/internal/interface/http"
	"github.com/podtrail/podtrail-api/internal/interface/middleware"
	"github.com/podtrail/podtrail-api/pkg/helpers"
)

// CatalogModule wires podcast and episode routes. Reads are public with an
// IP rate limit; mutations need a valid access token.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
}

func NewCatalogModule(h *handlers.CatalogHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Handler: h, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	public := rg.Group("/")
	public.Use(readLimiter)
	{
		public.GET("/podcasts", m.Handler.ListPodcasts)
		public.GET("/podcasts/search", m.Handler.SearchPodcasts)
		public.GET("/podcasts/:id", m.Handler.GetPodcast)
		public.GET("/podcasts/:id/episodes", m.Handler.ListEpisodes)
		public.GET("/podcasts/:id/episodes/:episodeID", m.Handler.GetEpisode)
	}

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/podcasts", m.Handler.CreatePodcast)
		auth.PUT("/podcasts/:id", m.Handler.UpdatePodcast)
		auth.DELETE("/podcasts/:id", m.Handler.DeletePodcast)
		auth.POST("/podcasts/:id/cover", m.Handler.UploadCover)
		auth.POST("/podcasts/:id/episodes", m.Handler.CreateEpisode)
		auth.PUT("/podcasts/:id/episodes/:episodeID", m.Handler.UpdateEpisode)
		auth.DELETE("/podcasts/:id/episodes/:episodeID", m.Handler.DeleteEpisode)
	}
}
