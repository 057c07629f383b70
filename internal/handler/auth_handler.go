package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poehali/auth-gateway/internal/dto"
	"github.com/poehali/auth-gateway/internal/repository"
	"github.com/poehali/auth-gateway/internal/service"
)

// SessionTokenHeader carries the first-party session token. Header lookup is
// case-insensitive per RFC 7230.
const SessionTokenHeader = "X-Session-Token"

// AuthHandler handles the gateway's three operations
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Dispatch routes a request by the pair (method, action query parameter):
//
//	(POST, "google") → Login
//	(GET,  "me")     → WhoAmI
//	(POST, "logout") → Logout
//
// Any other pair is a 404, same as an unknown path.
func (h *AuthHandler) Dispatch(c *gin.Context) {
	action := c.Query("action")

	switch {
	case c.Request.Method == http.MethodPost && action == "google":
		h.Login(c)
	case c.Request.Method == http.MethodGet && action == "me":
		h.WhoAmI(c)
	case c.Request.Method == http.MethodPost && action == "logout":
		h.Logout(c)
	default:
		NotFound(c)
	}
}

// NotFound renders the uniform 404 body used for unknown routes and unknown
// (method, action) pairs alike.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
}

// Login handles the Google callback: it exchanges an upstream access token
// for a local user record and a fresh session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// an absent or empty body is tolerated; malformed JSON is not
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.authService.LoginWithGoogle(c.Request.Context(), req.AccessToken)
	if err != nil {
		status, message := loginError(err)
		c.JSON(status, dto.ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// WhoAmI resolves the presented session token to the current user
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	token := c.GetHeader(SessionTokenHeader)

	user, err := h.authService.WhoAmI(c.Request.Context(), token)
	if err != nil {
		status, message := whoAmIError(err)
		c.JSON(status, dto.ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, dto.WhoAmIResponse{User: *user})
}

// Logout invalidates the presented session token. Logging out without a
// token is treated as already logged out, not as an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader(SessionTokenHeader)
	if token == "" {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		status, message := storeError(err)
		c.JSON(status, dto.ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// loginError maps Login failures to the observable contract. Everything
// without a dedicated mapping is a 500 carrying the raw error text.
func loginError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingAccessToken):
		return http.StatusBadRequest, "Missing access_token"
	case errors.Is(err, service.ErrInvalidUserInfo):
		return http.StatusBadRequest, "Invalid user info from Google"
	default:
		return storeError(err)
	}
}

func whoAmIError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, service.ErrInvalidSession):
		return http.StatusUnauthorized, "Invalid session"
	case errors.Is(err, service.ErrSessionExpired):
		return http.StatusUnauthorized, "Session expired"
	default:
		return storeError(err)
	}
}

func storeError(err error) (int, string) {
	if errors.Is(err, repository.ErrNotConfigured) {
		return http.StatusInternalServerError, "Database not configured"
	}
	return http.StatusInternalServerError, err.Error()
}
