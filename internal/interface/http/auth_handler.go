package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/google/uuid"

	"github.com/podtrail/podtrail-api/config"
	repo "github.com/podtrail/podtrail-api/internal/domain/repository"
	"github.com/podtrail/podtrail-api/pkg/helpers"
	"github.com/podtrail/podtrail-api/pkg/mailer"
	mailtpl "github.com/podtrail/podtrail-api/pkg/mailer/templates"
	"github.com/podtrail/podtrail-api/pkg/response"
	"github.com/podtrail/podtrail-api/pkg/validation"
)

// AuthHandler owns the email verification flow: issuing one-shot tokens and
// confirming them. Tokens live in Redis for 24h; the mail itself goes through
// the RabbitMQ queue consumed by the email worker.
type AuthHandler struct {
	Repo   repo.UserRepository
	RDB    *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAuthHandler(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Repo: r, RDB: rdb, Logger: logger, Cfg: cfg, Pub: pub}
}

func keyVerifyToken(t string) string { return "email:verify:token:" + t }

// VerifyInit POST /api/auth/verify/init (auth required)
// Issues a fresh verification token and enqueues the verification email.
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	u, err := h.Repo.GetByID(uid)
	if err != nil || u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if u.IsVerified {
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}

	tok := uuid.NewString()
	if h.RDB != nil {
		if err := h.RDB.Set(c.Request.Context(), keyVerifyToken(tok), uid, 24*time.Hour).Err(); err != nil {
			response.Error[any](c, http.StatusInternalServerError, "token storage failed", nil)
			return
		}
	}
	link := h.Cfg.VerifyEmailURL + "?token=" + tok

	if h.Pub != nil && h.Cfg.MailSendEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailtpl.VerifyEmail,
			Data:     map[string]any{"Name": u.Name, "VerifyURL": link},
		}
		if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil && h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("enqueue verify email failed")
		}
	}
	response.Success(c, http.StatusAccepted, gin.H{"sent": true}, "verification email enqueued", nil)
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyConfirm POST /api/auth/verify/confirm (public)
// Resolves the one-shot token and flips the user's verified flag.
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "verification unavailable", nil)
		return
	}
	uid, err := h.RDB.Get(c.Request.Context(), keyVerifyToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	u, err := h.Repo.GetByID(uid)
	if err != nil || u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if !u.IsVerified {
		u.IsVerified = true
		if err := h.Repo.Update(u); err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("user_id", uid).Warn("mark verified failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "verification failed", nil)
			return
		}
	}
	// One shot: burn the token.
	_ = h.RDB.Del(c.Request.Context(), keyVerifyToken(req.Token)).Err()
	response.Success(c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}
