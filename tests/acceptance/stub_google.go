package acceptance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Profile is the userinfo document the stub returns for one access token
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// StubGoogle stands in for Google's userinfo endpoint. Access tokens map to
// profiles; unknown tokens get a 401 like the real endpoint.
type StubGoogle struct {
	mu       sync.Mutex
	profiles map[string]Profile
	server   *httptest.Server
}

func NewStubGoogle() *StubGoogle {
	g := &StubGoogle{profiles: make(map[string]Profile)}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	return g
}

func (g *StubGoogle) handle(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	g.mu.Lock()
	profile, ok := g.profiles[token]
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
		return
	}

	json.NewEncoder(w).Encode(profile)
}

// SetProfile registers or replaces the profile returned for an access token
func (g *StubGoogle) SetProfile(accessToken string, profile Profile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles[accessToken] = profile
}

// Reset forgets all registered profiles
func (g *StubGoogle) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles = make(map[string]Profile)
}

// URL returns the stub endpoint address
func (g *StubGoogle) URL() string {
	return g.server.URL
}

func (g *StubGoogle) Close() {
	g.server.Close()
}
