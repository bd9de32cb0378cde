package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is a freshly issued login.
type Session struct {
	Token  string
	Claims *Claims
}

// AccountService logs users in and out.
type AccountService struct {
	db       *gorm.DB
	tokens   *TokenService
	sessions SessionStore
}

func NewAccountService(db *gorm.DB, tokens *TokenService, sessions SessionStore) *AccountService {
	return &AccountService{db: db, tokens: tokens, sessions: sessions}
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{"component": "AccountService", "method": "Login"})

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Info("Login rejected: unknown email", nil)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		log.Info("Login rejected: wrong password", logger.Fields{"user_id": user.ID})
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	log.Info("User logged in", logger.Fields{"user_id": user.ID, "role": user.Role})
	return &Session{Token: token, Claims: claims}, nil
}

// Authenticate returns the claims of a valid, unrevoked token whose user
// still exists. Email and role come from the current user row.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	var user models.User
	err = s.db.WithContext(ctx).Select("id", "email", "role").First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrTokenInvalid, claims.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	claims.Email = user.Email
	claims.Role = user.Role
	return claims, nil
}

// Logout revokes the token. Invalid or expired tokens are already unusable.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("User logged out", logger.Fields{"user_id": claims.UserID})
	return nil
}

// CookieMaxAge is the session cookie lifetime in seconds.
func (s *AccountService) CookieMaxAge() int {
	return int(s.tokens.TTL().Seconds())
}
