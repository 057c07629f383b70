package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poehali/auth-gateway/internal/dto"
)

func (s *Suite) login(body []byte) (*http.Response, error) {
	return http.Post(s.App.BaseURL+"/?action=google", "application/json", bytes.NewBuffer(body))
}

func (s *Suite) loginWithToken(accessToken string) dto.LoginResponse {
	body, _ := json.Marshal(dto.LoginRequest{AccessToken: accessToken})
	resp, err := s.login(body)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Require().Equal(http.StatusOK, resp.StatusCode, "login should succeed")

	var loginResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	return loginResp
}

func (s *Suite) whoAmI(sessionToken string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, s.App.BaseURL+"/?action=me", nil)
	s.Require().NoError(err)
	if sessionToken != "" {
		req.Header.Set("X-Session-Token", sessionToken)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) logout(sessionToken string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.App.BaseURL+"/?action=logout", nil)
	s.Require().NoError(err)
	if sessionToken != "" {
		req.Header.Set("X-Session-Token", sessionToken)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) errorBody(resp *http.Response) string {
	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp.Error
}

func (s *Suite) TestLogin_NewUser() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com", Name: "A"})

	loginResp := s.loginWithToken("tok1")

	s.NotEmpty(loginResp.SessionToken)
	s.Equal("a@x.com", loginResp.User.Email)
	s.Require().NotNil(loginResp.User.Name)
	s.Equal("A", *loginResp.User.Name)

	var count int
	err := s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE google_id = 'g1'`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)

	var storedUserID int64
	err = s.Postgres.DB.QueryRow(
		`SELECT user_id FROM sessions WHERE session_token = $1`, loginResp.SessionToken,
	).Scan(&storedUserID)
	s.Require().NoError(err)
	s.Equal(loginResp.User.ID, storedUserID)
}

func (s *Suite) TestLogin_SecondLoginKeepsUserID() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com", Name: "A"})

	first := s.loginWithToken("tok1")
	second := s.loginWithToken("tok1")

	s.Equal(first.User.ID, second.User.ID)
	s.NotEqual(first.SessionToken, second.SessionToken)

	var count int
	err := s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE google_id = 'g1'`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count, "upsert must not duplicate the user")
}

func (s *Suite) TestLogin_RefreshesProfileFields() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com", Name: "A"})
	first := s.loginWithToken("tok1")

	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "renamed@x.com", Name: "Renamed", Picture: "https://p/new.png"})
	second := s.loginWithToken("tok1")

	s.Equal(first.User.ID, second.User.ID)
	s.Equal("renamed@x.com", second.User.Email)

	var email string
	err := s.Postgres.DB.QueryRow(`SELECT email FROM users WHERE google_id = 'g1'`).Scan(&email)
	s.Require().NoError(err)
	s.Equal("renamed@x.com", email)
}

func (s *Suite) TestLogin_MissingAccessToken() {
	resp, err := s.login([]byte(`{}`))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Missing access_token", s.errorBody(resp))
}

func (s *Suite) TestLogin_ProviderRejectsToken() {
	// token not registered in the stub: the userinfo call fails with a 401
	// and the gateway reports 500 with the underlying error text
	body, _ := json.Marshal(dto.LoginRequest{AccessToken: "never-issued"})
	resp, err := s.login(body)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.NotEmpty(s.errorBody(resp))
}

func (s *Suite) TestWhoAmI_Flow() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com", Name: "A"})
	loginResp := s.loginWithToken("tok1")

	resp := s.whoAmI(loginResp.SessionToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var whoResp dto.WhoAmIResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&whoResp))
	s.Equal("a@x.com", whoResp.User.Email)
	s.Equal(loginResp.User.ID, whoResp.User.ID)
}

func (s *Suite) TestWhoAmI_NoToken() {
	resp := s.whoAmI("")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("Not authenticated", s.errorBody(resp))
}

func (s *Suite) TestWhoAmI_UnknownToken() {
	resp := s.whoAmI("no-such-token")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("Invalid session", s.errorBody(resp))
}

func (s *Suite) TestWhoAmI_ExpiredSession() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com"})
	loginResp := s.loginWithToken("tok1")

	// age the session past its expiry
	_, err := s.Postgres.DB.Exec(
		`UPDATE sessions SET expires_at = $1 WHERE session_token = $2`,
		time.Now().Add(-time.Minute), loginResp.SessionToken,
	)
	s.Require().NoError(err)

	resp := s.whoAmI(loginResp.SessionToken)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("Session expired", s.errorBody(resp))
}

func (s *Suite) TestLogout_ExpiresRatherThanDeletes() {
	s.Google.SetProfile("tok1", Profile{ID: "g1", Email: "a@x.com"})
	loginResp := s.loginWithToken("tok1")

	logoutResp := s.logout(loginResp.SessionToken)
	defer logoutResp.Body.Close()

	s.Equal(http.StatusOK, logoutResp.StatusCode)

	var msgResp dto.MessageResponse
	s.Require().NoError(json.NewDecoder(logoutResp.Body).Decode(&msgResp))
	s.Equal("Logged out successfully", msgResp.Message)

	// the row survives as history; only its expiry moved
	var count int
	err := s.Postgres.DB.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE session_token = $1`, loginResp.SessionToken,
	).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)

	whoResp := s.whoAmI(loginResp.SessionToken)
	defer whoResp.Body.Close()

	s.Equal(http.StatusUnauthorized, whoResp.StatusCode)
	s.Equal("Session expired", s.errorBody(whoResp), "logout must expire, not delete")
}

func (s *Suite) TestLogout_NoToken() {
	resp := s.logout("")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var msgResp dto.MessageResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&msgResp))
	s.Equal("Logged out", msgResp.Message)
}

func (s *Suite) TestLogout_UnknownTokenStillSucceeds() {
	resp := s.logout(uuid.New().String())
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var msgResp dto.MessageResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&msgResp))
	s.Equal("Logged out successfully", msgResp.Message)
}

func (s *Suite) TestPreflight() {
	for _, path := range []string{"/", "/?action=google", "/anything"} {
		req, err := http.NewRequest(http.MethodOptions, s.App.BaseURL+path, nil)
		s.Require().NoError(err)

		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)

		s.Equal(http.StatusOK, resp.StatusCode)
		s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
		s.Equal("86400", resp.Header.Get("Access-Control-Max-Age"))

		buf := make([]byte, 1)
		n, _ := resp.Body.Read(buf)
		s.Zero(n, "preflight body must be empty")
		resp.Body.Close()
	}
}

func (s *Suite) TestUnknownAction() {
	resp, err := http.Post(s.App.BaseURL+"/?action=bogus", "application/json", bytes.NewBufferString("{}"))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("Not found", s.errorBody(resp))
}

func (s *Suite) TestUnknownPath() {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/nothing", s.App.BaseURL))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("Not found", s.errorBody(resp))
}
