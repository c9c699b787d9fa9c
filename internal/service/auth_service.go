package service

import (
	"context"
	"fmt"

	"jewelshop/internal/models"
	"jewelshop/internal/session"
	"jewelshop/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService verifies credentials and issues/revokes sessions.
type AuthService struct {
	users    UserStore
	vendors  VendorStore
	sessions SessionStore
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, vendors VendorStore, sessions SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		vendors:  vendors,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// Login checks the credentials and, on success, issues a session token.
// Unknown emails, wrong passwords and inactive accounts all read as
// invalid credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || user.Status != models.UserStatusActive {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess := &session.Session{
		UserID: user.ID,
		Role:   user.Role,
	}

	if user.Role == models.RoleVendor {
		vendor, err := s.vendors.GetVendorByUserID(ctx, user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load vendor: %w", err)
		}
		if vendor == nil {
			return nil, nil, ErrInvalidCredentials
		}
		sess.VendorID = vendor.ID
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))

	return sess, user, nil
}

// Logout revokes a session token. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
