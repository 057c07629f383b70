package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/poehali/auth-gateway/internal/domain"
	"github.com/poehali/auth-gateway/internal/dto"
	"github.com/poehali/auth-gateway/internal/repository"
)

const sessionTokenBytes = 32

// authService implements AuthService interface
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	google      UserInfoFetcher
	sessionTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	google UserInfoFetcher,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		google:      google,
		sessionTTL:  sessionTTL,
	}
}

// LoginWithGoogle verifies the access token against Google's userinfo
// endpoint, upserts the user by subject id and issues a new session. The
// user upsert and the session insert commit as one transaction.
func (s *authService) LoginWithGoogle(ctx context.Context, accessToken string) (*dto.LoginResponse, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	info, err := s.google.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	if info.ID == "" || info.Email == "" {
		return nil, ErrInvalidUserInfo
	}

	user := &domain.User{
		GoogleID: info.ID,
		Email:    info.Email,
		Name:     optional(info.Name),
		Picture:  optional(info.Picture),
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &domain.Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.userRepo.UpsertWithSession(ctx, user, session); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		SessionToken: session.Token,
		User:         userInfoDTO(user),
	}, nil
}

// WhoAmI resolves a session token to its owning user. It performs a single
// read-only query and never refreshes the session's expiry.
func (s *authService) WhoAmI(ctx context.Context, sessionToken string) (*dto.UserInfo, error) {
	if sessionToken == "" {
		return nil, ErrNotAuthenticated
	}

	session, user, err := s.sessionRepo.GetWithUser(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	info := userInfoDTO(user)
	return &info, nil
}

// Logout expires the session unconditionally: a token that matches no row
// still reports success, so logout never leaks token validity.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessionRepo.Expire(ctx, sessionToken); err != nil {
		return err
	}
	return nil
}

func userInfoDTO(user *domain.User) dto.UserInfo {
	return dto.UserInfo{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// generateSessionToken returns 32 bytes of entropy in URL-safe encoding
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
