package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supabaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.SessionToken{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600, TokenType: "bearer"})
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSupabaseSessionLogin(t *testing.T) {
	srv := supabaseServer(t)
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "session", "token.json"))
	session := NewSupabaseSession(Config{SupabaseURL: srv.URL, SupabaseAnonKey: "anon"}, store, srv.Client())
	ctx := context.Background()

	_, err := session.Token(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	tok, err := session.Login(ctx, "admin@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "refresh", tok.RefreshToken)

	got, err := session.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", got)

	// a fresh store on the same file sees the token
	stored, err := NewFileTokenStore(store.Path).Load()
	require.NoError(t, err)
	assert.Equal(t, "access", stored)

	require.NoError(t, session.Logout(ctx))
	_, err = session.Token(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSupabaseSessionLoginRejected(t *testing.T) {
	srv := supabaseServer(t)
	session := NewSupabaseSession(Config{SupabaseURL: srv.URL, SupabaseAnonKey: "anon"}, nil, srv.Client())

	_, err := session.Login(context.Background(), "admin@example.org", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestTokenStores(t *testing.T) {
	for name, store := range map[string]TokenStore{
		"memory": &MemoryTokenStore{},
		"file":   NewFileTokenStore(filepath.Join(t.TempDir(), "token.json")),
	} {
		t.Run(name, func(t *testing.T) {
			tok, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, tok)

			require.NoError(t, store.Save("abc"))
			tok, err = store.Load()
			require.NoError(t, err)
			assert.Equal(t, "abc", tok)

			require.NoError(t, store.Clear())
			require.NoError(t, store.Clear())
			tok, err = store.Load()
			require.NoError(t, err)
			assert.Empty(t, tok)
		})
	}
}

func TestStaticSession(t *testing.T) {
	tok, err := StaticSession("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticSession("").Token(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
