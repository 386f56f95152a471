// Package identity issues, rotates and revokes access and refresh tokens.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/auth"
	"innosistemas/api/internal/cache"
	"innosistemas/api/internal/crypto"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/metrics"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository"
)

const minPasswordLength = 8

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// dummyPasswordHash is checked on unknown emails to keep failed logins uniform.
func dummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		hash, err := crypto.HashPassword(uuid.NewString())
		if err == nil {
			dummyHash = hash
		}
	})
	return dummyHash
}

type Store interface {
	repository.UserStore
	repository.SessionStore
}

type Options struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	store    Store
	denylist cache.Denylist
	opts     Options
	now      func() time.Time
}

func NewService(store Store, denylist cache.Denylist, opts Options) *Service {
	return &Service{store: store, denylist: denylist, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

type clientKey struct{}

type client struct {
	userAgent string
	ip        string
}

// WithClient attaches the caller's user agent and address, recorded on the
// refresh sessions created under ctx.
func WithClient(ctx context.Context, userAgent, ip string) context.Context {
	return context.WithValue(ctx, clientKey{}, client{userAgent: userAgent, ip: ip})
}

func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		metrics.LoginAttempts.WithLabelValues("missing_credentials").Inc()
		return dto.TokenResponse{}, model.ErrMissingCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_ = crypto.CheckPassword(dummyPasswordHash(), req.Password)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return dto.TokenResponse{}, model.ErrInvalidCredentials
		}
		return dto.TokenResponse{}, goerr.Wrap(err, "load user", goerr.V("email", email))
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return dto.TokenResponse{}, model.ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	metrics.TokensIssued.WithLabelValues("password").Inc()
	ctxlog.From(ctx).Info("user logged in", "user_id", user.ID)
	return resp, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a
// new token pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (dto.TokenResponse, error) {
	if refreshToken == "" {
		return dto.TokenResponse{}, model.ErrInvalidRefreshToken
	}

	session, err := s.store.GetRefreshSession(ctx, crypto.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return dto.TokenResponse{}, model.ErrInvalidRefreshToken
		}
		return dto.TokenResponse{}, goerr.Wrap(err, "load refresh session")
	}

	now := s.now()
	if session.RevokedAt != nil || !session.ExpiresAt.After(now) {
		return dto.TokenResponse{}, model.ErrRefreshExpired
	}

	// Only one caller can revoke a live session.
	if err := s.store.RevokeRefreshSession(ctx, session.ID, now); err != nil {
		if errors.Is(err, model.ErrRefreshExpired) || errors.Is(err, model.ErrNotFound) {
			return dto.TokenResponse{}, model.ErrRefreshExpired
		}
		return dto.TokenResponse{}, goerr.Wrap(err, "revoke rotated session", goerr.V("session_id", session.ID))
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return dto.TokenResponse{}, model.ErrInvalidRefreshToken
		}
		return dto.TokenResponse{}, goerr.Wrap(err, "load session owner", goerr.V("user_id", session.UserID))
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	metrics.TokensIssued.WithLabelValues("refresh").Inc()
	return resp, nil
}

// Authenticate validates an access token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(s.opts.Secret, s.opts.Issuer, accessToken)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "parse access token", goerr.V("reason", err.Error()))
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "check denylist")
	}
	if revoked {
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "access token revoked", goerr.V("jti", claims.ID))
	}
	return claims, nil
}

// LogoutClaims revokes every refresh session of the target user. The target
// is the caller unless req names another email, which only admins may do.
func (s *Service) LogoutClaims(ctx context.Context, claims *auth.Claims, req dto.LogoutRequest) error {
	if claims == nil {
		return model.ErrInvalidCredentials
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		email = claims.Email
	}

	self := email == claims.Email
	if !self && claims.Role != model.RoleAdmin {
		return goerr.Wrap(model.ErrForbidden, "logout of another user", goerr.V("email", email))
	}

	userID := claims.UserID
	if !self {
		user, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return goerr.Wrap(err, "load logout target", goerr.V("email", email))
		}
		userID = user.ID
	}

	now := s.now()
	if err := s.store.RevokeRefreshSessionsByUser(ctx, userID, now); err != nil {
		return goerr.Wrap(err, "revoke sessions", goerr.V("user_id", userID))
	}
	if self {
		if err := s.denylist.Revoke(ctx, claims.ID, claims.Remaining(now)); err != nil {
			return goerr.Wrap(err, "denylist access token", goerr.V("jti", claims.ID))
		}
	}
	ctxlog.From(ctx).Info("user logged out", "user_id", userID, "by", claims.UserID)
	return nil
}

// Logout is LogoutClaims for callers holding the raw access token.
func (s *Service) Logout(ctx context.Context, accessToken string, req dto.LogoutRequest) error {
	claims, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return err
	}
	return s.LogoutClaims(ctx, claims, req)
}

func (s *Service) Me(ctx context.Context, claims *auth.Claims) (dto.UserInfo, error) {
	if claims == nil {
		return dto.UserInfo{}, model.ErrInvalidCredentials
	}
	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return dto.UserInfo{}, goerr.Wrap(err, "load current user", goerr.V("user_id", claims.UserID))
	}
	perms, err := s.store.ListPermissions(ctx, user.Role)
	if err != nil {
		return dto.UserInfo{}, goerr.Wrap(err, "load permissions", goerr.V("role", user.Role))
	}
	return UserInfo(user, perms), nil
}

// UserInfo resolves the user behind a raw access token.
func (s *Service) UserInfo(ctx context.Context, accessToken string) (dto.UserInfo, error) {
	claims, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return dto.UserInfo{}, err
	}
	return s.Me(ctx, claims)
}

func (s *Service) ListUsers(ctx context.Context, limit int) ([]dto.UserWithRoleDto, error) {
	users, err := s.store.ListUsers(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserWithRoleDto, 0, len(users))
	for _, u := range users {
		out = append(out, UserWithRole(u))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, email string) (dto.UserWithRoleDto, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return dto.UserWithRoleDto{}, err
	}
	return UserWithRole(user), nil
}

func (s *Service) Register(ctx context.Context, req dto.CreateUserDto) (dto.UserWithRoleDto, error) {
	return s.createUser(ctx, req, model.RoleStudent)
}

// CreateUser registers an account with an explicit role. Used by seeding.
func (s *Service) CreateUser(ctx context.Context, req dto.CreateUserDto, role string) (dto.UserWithRoleDto, error) {
	if !model.IsValidRole(role) {
		return dto.UserWithRoleDto{}, goerr.Wrap(model.ErrInvalidInput, "unknown role", goerr.V("role", role))
	}
	return s.createUser(ctx, req, role)
}

func (s *Service) createUser(ctx context.Context, req dto.CreateUserDto, role string) (dto.UserWithRoleDto, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	name := strings.TrimSpace(req.NameUser)
	if email == "" || !strings.Contains(email, "@") || name == "" {
		return dto.UserWithRoleDto{}, goerr.Wrap(model.ErrInvalidInput, "email and name are required")
	}
	if len(req.Password) < minPasswordLength {
		return dto.UserWithRoleDto{}, goerr.Wrap(model.ErrInvalidInput, "password too short", goerr.V("min", minPasswordLength))
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return dto.UserWithRoleDto{}, goerr.Wrap(err, "hash password")
	}
	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return dto.UserWithRoleDto{}, err
	}
	ctxlog.From(ctx).Info("user registered", "user_id", user.ID, "role", role)
	return UserWithRole(user), nil
}

func (s *Service) issueTokens(ctx context.Context, user model.User) (dto.TokenResponse, error) {
	perms, err := s.store.ListPermissions(ctx, user.Role)
	if err != nil {
		return dto.TokenResponse{}, goerr.Wrap(err, "load permissions", goerr.V("role", user.Role))
	}

	accessToken, err := auth.NewAccessToken(s.opts.Secret, s.opts.Issuer, s.opts.AccessTTL, auth.Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: perms,
	})
	if err != nil {
		return dto.TokenResponse{}, goerr.Wrap(err, "sign access token")
	}

	refreshToken, err := crypto.NewRefreshToken()
	if err != nil {
		return dto.TokenResponse{}, goerr.Wrap(err, "generate refresh token")
	}

	now := s.now()
	session := model.RefreshSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.RefreshTTL),
	}
	if c, ok := ctx.Value(clientKey{}).(client); ok {
		if c.userAgent != "" {
			session.UserAgent = &c.userAgent
		}
		if c.ip != "" {
			session.IPAddress = &c.ip
		}
	}
	if err := s.store.CreateRefreshSession(ctx, session); err != nil {
		return dto.TokenResponse{}, goerr.Wrap(err, "store refresh session", goerr.V("user_id", user.ID))
	}

	return dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    dto.TokenTypeBearer,
		ExpiresIn:    int64(s.opts.AccessTTL / time.Second),
	}, nil
}
