package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/podtrail/podtrail-api/config"
	"github.com/podtrail/podtrail-api/internal/domain/entity"
	repo "github.com/podtrail/podtrail-api/internal/domain/repository"
	"github.com/podtrail/podtrail-api/pkg/helpers"
	"github.com/podtrail/podtrail-api/pkg/mailer"
	mailtpl "github.com/podtrail/podtrail-api/pkg/mailer/templates"
)

var (
	ErrEmailTaken         = errors.New("there is already a user with that email")
	ErrInvalidCredentials = errors.New("wrong password")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService owns user identity: registration with uniqueness
// enforcement, credential verification and token issuance, lookup, and
// profile mutation.
type AccountService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
	Cfg    *config.Config
}

func NewAccountService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, cfg *config.Config) *AccountService {
	return &AccountService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger, Pub: pub, Cfg: cfg}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func keyVerifyToken(t string) string {
	return "email:verify:token:" + t
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates a new account. The email must not belong to an existing
// user; the check and the insert are separate round-trips, so two concurrent
// registrations for the same email can race past the check and one of them
// will fail on the unique index instead.
func (s *AccountService) Register(ctx context.Context, email, password, name, role string) error {
	if !entity.ValidRole(role) {
		role = entity.RoleUser
	}
	existing, err := s.Repo.GetByEmail(email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("create account: %w", err)
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	u := &entity.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     role,
	}
	if err := s.Repo.Create(u); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	s.sendVerifyEmail(ctx, u)
	return nil
}

// Login verifies credentials and issues a token pair. A missing account and a
// wrong password fail differently so the transport layer can report them as
// such.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Repo.GetByEmail(email)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return nil, TokenPair{}, ErrUserNotFound
	}
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("login: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       u.Role,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair after validating the refresh
// token against the current Redis session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// FindByID returns the user or ErrUserNotFound when the lookup fails.
func (s *AccountService) FindByID(id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfile mutates the stored user. A changed email resets the verified
// flag and re-triggers the verification mail. Failures are reported
// generically; there is no separate not-found outcome here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	emailChanged := false
	if in.Email != "" && in.Email != u.Email {
		u.Email = in.Email
		u.IsVerified = false
		emailChanged = true
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		u.Password = hash
	}
	if in.Name != "" {
		u.Name = in.Name
	}

	if err := s.Repo.Update(u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"email":      u.Email,
			"name":       u.Name,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	if emailChanged {
		s.sendVerifyEmail(ctx, u)
	}
	return u, nil
}

// sendVerifyEmail stores a one-shot verification token in Redis and enqueues
// the mail job. Best effort: a broken broker must not fail the write that
// triggered it.
func (s *AccountService) sendVerifyEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	tok := uuid.NewString()
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, keyVerifyToken(tok), u.ID, 24*time.Hour).Err(); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).Warn("store verify token failed")
			}
			return
		}
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.VerifyEmail,
		Data: map[string]any{
			"Name":      u.Name,
			"VerifyURL": s.Cfg.VerifyEmailURL + "?token=" + tok,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue verify email failed")
	}
}
