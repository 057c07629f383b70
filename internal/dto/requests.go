package dto

// LoginRequest represents the google callback request body
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

// UserInfo represents user information in responses
type UserInfo struct {
	ID      int64   `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	SessionToken string   `json:"session_token"`
	User         UserInfo `json:"user"`
}

// WhoAmIResponse represents a successful session lookup response
type WhoAmIResponse struct {
	User UserInfo `json:"user"`
}

// MessageResponse represents a success response carrying only a message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Failures always carry exactly
// one "error" field; success responses never include it.
type ErrorResponse struct {
	Error string `json:"error"`
}
