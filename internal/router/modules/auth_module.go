package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podtrail/podtrail-api/internal/container"
	handlers "github.com/podtrail/podtrail-api/internal/interface/http"
	"github.com/podtrail/podtrail-api/internal/interface/middleware"
	"github.com/podtrail/podtrail-api/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	verifyConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/auth/verify/confirm", verifyConfirmLimiter, m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/verify/init", m.Handler.VerifyInit)
	}
}
