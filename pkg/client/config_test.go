package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("VITE_API_BASE_URL", "https://admin.example.org/api/")
	t.Setenv("VITE_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "anon")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://admin.example.org/api", cfg.APIBaseURL)
	assert.Equal(t, "wss://admin.example.org/api/ws/notulen", cfg.LiveURL())
}

func TestConfigValidate(t *testing.T) {
	for name, testcase := range map[string]struct {
		cfg     Config
		wantErr string
	}{
		"valid": {
			cfg: Config{APIBaseURL: "http://localhost:8080/api"},
		},
		"missing base url": {
			cfg:     Config{},
			wantErr: "VITE_API_BASE_URL is required",
		},
		"not http": {
			cfg:     Config{APIBaseURL: "localhost:8080"},
			wantErr: "must be an http(s) url",
		},
		"supabase without key": {
			cfg:     Config{APIBaseURL: "http://localhost", SupabaseURL: "https://p.supabase.co"},
			wantErr: "VITE_SUPABASE_ANON_KEY",
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := testcase.cfg.Validate()
			if testcase.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testcase.wantErr)
		})
	}
}

func TestLiveURLPlainHTTP(t *testing.T) {
	cfg := Config{APIBaseURL: "http://localhost:8080/api"}
	assert.Equal(t, "ws://localhost:8080/api/ws/notulen", cfg.LiveURL())
}
