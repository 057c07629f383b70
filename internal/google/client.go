// Package google fetches user profiles from Google's OAuth userinfo endpoint.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo is the profile document returned by the userinfo endpoint.
// ID and Email are required downstream; Name and Picture may be absent.
type UserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client calls the userinfo endpoint with a caller-supplied access token.
type Client struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewClient creates a userinfo client. An empty userInfoURL selects the real
// Google endpoint; tests point it at a local stub. The timeout bounds the
// whole outbound call; there are no retries.
func NewClient(userInfoURL string, timeout time.Duration) *Client {
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	return &Client{
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// FetchUserInfo retrieves the profile for the given access token, presented
// as a bearer credential.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	return &info, nil
}
