package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkl25/admin-api/pkg/models"
)

// tokenKey is the storage key the admin front end keeps its access token under.
const tokenKey = "auth_token"

var ErrNotAuthenticated = errors.New("client: not authenticated")

// SessionProvider hands out the bearer token requests are sent with.
type SessionProvider interface {
	Login(ctx context.Context, email, password string) (*models.SessionToken, error)
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

// TokenStore persists the access token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// FileTokenStore keeps the token in a small JSON file, readable by the owner only.
type FileTokenStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (s *FileTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return "", fmt.Errorf("failed to decode token file: %w", err)
	}
	return values[tokenKey], nil
}

func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.Path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// SupabaseSession signs in against Supabase Auth with the password grant.
type SupabaseSession struct {
	baseURL    string
	anonKey    string
	store      TokenStore
	httpClient *http.Client
}

func NewSupabaseSession(cfg Config, store TokenStore, httpClient *http.Client) *SupabaseSession {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &SupabaseSession{
		baseURL:    cfg.SupabaseURL,
		anonKey:    cfg.SupabaseAnonKey,
		store:      store,
		httpClient: httpClient,
	}
}

func (s *SupabaseSession) Login(ctx context.Context, email, password string) (*models.SessionToken, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var token models.SessionToken
	if err := s.authRequest(ctx, "/auth/v1/token?grant_type=password", "", body, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, errors.New("supabase returned no access token")
	}
	if err := s.store.Save(token.AccessToken); err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout revokes the session at Supabase and always forgets the local token.
func (s *SupabaseSession) Logout(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	var remoteErr error
	if token != "" {
		remoteErr = s.authRequest(ctx, "/auth/v1/logout", token, nil, nil)
	}
	return errors.Join(remoteErr, s.store.Clear())
}

func (s *SupabaseSession) Token(ctx context.Context) (string, error) {
	token, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (s *SupabaseSession) authRequest(ctx context.Context, endpoint, bearer string, body []byte, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		var authErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
			Msg              string `json:"msg"`
		}
		_ = json.Unmarshal(respBody, &authErr)
		msg := authErr.ErrorDescription
		if msg == "" {
			msg = authErr.Msg
		}
		if msg == "" {
			msg = string(respBody)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}

// StaticSession serves a fixed token, for service accounts and tests.
type StaticSession string

func (s StaticSession) Login(context.Context, string, string) (*models.SessionToken, error) {
	return &models.SessionToken{AccessToken: string(s), TokenType: "bearer"}, nil
}

func (s StaticSession) Logout(context.Context) error { return nil }

func (s StaticSession) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}
