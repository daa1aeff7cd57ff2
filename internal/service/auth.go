package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/pattarapk/storefront/internal/auth"
	"github.com/pattarapk/storefront/internal/config"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// ClientMeta is request origin data attached to audit entries
type ClientMeta struct {
	IP        string
	UserAgent string
}

// LoginInput is everything login needs from the transport layer.
// PresentedToken is a refresh token the client still holds (e.g. a stale
// cookie) - logging in invalidates it.
type LoginInput struct {
	Email          string
	Password       string
	PresentedToken string
	Meta           ClientMeta
	At             time.Time
}

// AuthService drives the session lifecycle: issuance, rotation with reuse
// detection, revocation and per-user session quota.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, login LoginInput) (*auth.Jwt, *model.RefreshToken, *model.User, error)
	Refresh(ctx context.Context, token string, at time.Time) (*auth.Jwt, *model.RefreshToken, error)
	Logout(ctx context.Context, token string) error
	LogoutAll(ctx context.Context, userID string, meta ClientMeta) error
}

type authService struct {
	jwtIssuer   *auth.JwtIssuer
	rfrTokenCfg *config.RefreshTokenCfg
	trx         transactor.Transactor
	userRps     repository.UserRepository
	rfrTokenRps repository.RefreshTokenRepository
	activityRps repository.ActivityLogRepository
}

// NewAuthService builds new AuthService
func NewAuthService(
	jwtIssuer *auth.JwtIssuer,
	rfrTokenCfg *config.RefreshTokenCfg,
	trx transactor.Transactor,
	userRps repository.UserRepository,
	rfrTokenRps repository.RefreshTokenRepository,
	activityRps repository.ActivityLogRepository,
) AuthService {
	return &authService{
		jwtIssuer:   jwtIssuer,
		rfrTokenCfg: rfrTokenCfg,
		trx:         trx,
		userRps:     userRps,
		rfrTokenRps: rfrTokenRps,
		activityRps: activityRps,
	}
}

func (s *authService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userRps.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "email is already registered")
	}

	hash, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         string(auth.RoleUser),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRps.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and opens a new session. The response to a
// missing user, a wrong password and a deactivated account is identical,
// existence of an email must not be observable.
func (s *authService) Login(ctx context.Context, login LoginInput) (*auth.Jwt, *model.RefreshToken, *model.User, error) {
	user, err := s.userRps.FindByEmail(ctx, login.Email)
	if err != nil {
		return nil, nil, nil, err
	}

	if user == nil || auth.VerifyPassword(user.PasswordHash, login.Password) != nil || !user.Active {
		s.audit(ctx, nil, model.ActionLoginFailed, "", "failed login attempt for "+login.Email, login.Meta)
		return nil, nil, nil, echo.ErrUnauthorized
	}

	// a dangling credential from the same client is superseded by this login
	if login.PresentedToken != "" {
		if _, err := s.rfrTokenRps.Revoke(ctx, login.PresentedToken); err != nil {
			logrus.Errorf("failed to revoke stale refresh token on login - %v", err)
		}
	}

	jwtToken, err := s.jwtIssuer.Sign(auth.Principal{ID: user.ID, Role: auth.Role(user.Role)}, login.At)
	if err != nil {
		return nil, nil, nil, err
	}

	rfrToken := s.mintRefreshToken(user.ID, login.At)
	if err := s.rfrTokenRps.Create(ctx, rfrToken); err != nil {
		return nil, nil, nil, err
	}

	s.trimSessions(ctx, user.ID)
	s.audit(ctx, &user.ID, model.ActionLogin, user.ID, "user logged in", login.Meta)

	return jwtToken, rfrToken, user, nil
}

// Refresh rotates a refresh credential. The token is consumed by a delete
// which must confirm a row was removed before anything new is minted - of
// two requests racing over the same token exactly one passes, the other is
// rejected as reuse.
func (s *authService) Refresh(ctx context.Context, token string, at time.Time) (*auth.Jwt, *model.RefreshToken, error) {
	var jwtToken *auth.Jwt
	var newToken *model.RefreshToken

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.rfrTokenRps.FindValid(ctx, token)
		if err != nil {
			return err
		}
		if stored == nil {
			return echo.ErrUnauthorized
		}

		consumed, err := s.rfrTokenRps.Revoke(ctx, token)
		if err != nil {
			return err
		}
		if !consumed {
			// another request spent this token between lookup and delete,
			// somebody is replaying it
			logrus.Warnf("refresh token of user %s presented after consumption, possible token theft", stored.UserID)
			return echo.ErrForbidden
		}

		user, err := s.userRps.FindByID(ctx, stored.UserID)
		if err != nil {
			return err
		}
		if user == nil || !user.Active {
			return echo.ErrUnauthorized
		}

		jwtToken, err = s.jwtIssuer.Sign(auth.Principal{ID: user.ID, Role: auth.Role(user.Role)}, at)
		if err != nil {
			return err
		}

		newToken = s.mintRefreshToken(user.ID, at)
		return s.rfrTokenRps.Create(ctx, newToken)
	})
	if err != nil {
		return nil, nil, err
	}

	s.trimSessions(ctx, newToken.UserID)

	return jwtToken, newToken, nil
}

// Logout is idempotent, revoking a token which is not there is a success
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if _, err := s.rfrTokenRps.Revoke(ctx, token); err != nil {
		return err
	}
	return nil
}

// LogoutAll revokes every credential of the user ("log out everywhere")
func (s *authService) LogoutAll(ctx context.Context, userID string, meta ClientMeta) error {
	if err := s.rfrTokenRps.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	s.audit(ctx, &userID, model.ActionForceLogout, userID, "all sessions revoked", meta)
	return nil
}

func (s *authService) mintRefreshToken(userID string, at time.Time) *model.RefreshToken {
	return &model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: at.Add(s.rfrTokenCfg.TimeToLive),
		CreatedAt: at,
	}
}

// trimSessions drops the oldest credentials beyond the configured quota.
// Housekeeping only - a failure here never fails the surrounding login or
// refresh.
func (s *authService) trimSessions(ctx context.Context, userID string) {
	tokens, err := s.rfrTokenRps.FindByUserID(ctx, userID)
	if err != nil {
		logrus.Errorf("failed to list refresh tokens of user %s for trimming - %v", userID, err)
		return
	}

	if len(tokens) <= s.rfrTokenCfg.MaxCount {
		return
	}

	overflow := make([]string, 0, len(tokens)-s.rfrTokenCfg.MaxCount)
	for _, tkn := range tokens[s.rfrTokenCfg.MaxCount:] {
		overflow = append(overflow, tkn.Token)
	}

	if err := s.rfrTokenRps.DeleteTokens(ctx, overflow); err != nil {
		logrus.Errorf("failed to trim sessions of user %s - %v", userID, err)
	}
}

// audit appends an activity log entry, fire-and-forget
func (s *authService) audit(ctx context.Context, userID *string, action, entityID, details string, meta ClientMeta) {
	entry := &model.ActivityLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		EntityType: "SESSION",
		EntityID:   entityID,
		Details:    details,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.activityRps.Create(ctx, entry); err != nil {
		logrus.Errorf("failed to write activity log entry - %v", err)
	}
}
