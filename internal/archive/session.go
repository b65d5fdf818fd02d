package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
)

// Session owns the bearer token for the process lifetime. The token lives
// only in memory; there is no refresh or expiry handling, so a token the
// server later rejects surfaces as a NetworkError on the failing call.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
	set   bool
}

// NewSession returns an unauthenticated session bound to client.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

type tokenForm int

const (
	tokenStructured tokenForm = iota // {"token": "..."}
	tokenRawText                     // the whole body is the token
)

func (f tokenForm) String() string {
	if f == tokenStructured {
		return "json"
	}
	return "raw"
}

// tokenReply is the outcome of reading a login response body.
type tokenReply struct {
	value string
	form  tokenForm
}

// parseTokenReply reads a JSON {"token": "..."} object first and falls back
// to the raw body when that fails or the field is absent.
func parseTokenReply(body []byte) tokenReply {
	var structured struct {
		Token *string `json:"token"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Token != nil {
		return tokenReply{value: strings.TrimSpace(*structured.Token), form: tokenStructured}
	}
	return tokenReply{value: strings.TrimSpace(string(body)), form: tokenRawText}
}

var errEmptyToken = errors.New("server returned an empty token")

// Login exchanges credentials for a token and stores it. On failure the
// previously stored token, if any, is left untouched.
func (s *Session) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := s.client.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   loginPath,
		body:   creds,
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	reply := parseTokenReply(body)
	if reply.value == "" {
		return "", &AuthError{Err: errEmptyToken}
	}

	s.mu.Lock()
	s.token = reply.value
	s.set = true
	s.mu.Unlock()

	s.client.logger.InfoContext(ctx, "logged in", "user", creds.Username, "token_form", reply.form.String())
	return reply.value, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// AuthorizationHeader returns "Bearer <token>" or ErrNotAuthenticated.
func (s *Session) AuthorizationHeader() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", ErrNotAuthenticated
	}
	return "Bearer " + s.token, nil
}
