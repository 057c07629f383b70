package service

import (
	"context"

	"github.com/poehali/auth-gateway/internal/dto"
	"github.com/poehali/auth-gateway/internal/google"
)

// AuthService defines the three gateway operations
type AuthService interface {
	// LoginWithGoogle exchanges a Google access token for a local user
	// record and a fresh session token.
	LoginWithGoogle(ctx context.Context, accessToken string) (*dto.LoginResponse, error)
	// WhoAmI resolves a session token to the current user without mutating
	// any state.
	WhoAmI(ctx context.Context, sessionToken string) (*dto.UserInfo, error)
	// Logout invalidates a session token. Unknown tokens still succeed.
	Logout(ctx context.Context, sessionToken string) error
}

// UserInfoFetcher fetches a profile document from the identity provider
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*google.UserInfo, error)
}
