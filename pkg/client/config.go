// Package client is the Go SDK for the admin API: an authenticated REST
// client, a Supabase session provider, the reorder and bulk helpers used
// by admin tools and the notulen live-update channel.
package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	APIBaseURL      string
	SupabaseURL     string
	SupabaseAnonKey string
}

// ConfigFromEnv reads the same variables the admin front end is built with.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:      strings.TrimRight(os.Getenv("VITE_API_BASE_URL"), "/"),
		SupabaseURL:     strings.TrimRight(os.Getenv("VITE_SUPABASE_URL"), "/"),
		SupabaseAnonKey: os.Getenv("VITE_SUPABASE_ANON_KEY"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("VITE_API_BASE_URL is required"))
	} else if !strings.HasPrefix(c.APIBaseURL, "http") {
		errs = append(errs, fmt.Errorf("VITE_API_BASE_URL must be an http(s) url, got %q", c.APIBaseURL))
	}
	if c.SupabaseURL != "" && c.SupabaseAnonKey == "" {
		errs = append(errs, errors.New("VITE_SUPABASE_ANON_KEY is required with VITE_SUPABASE_URL"))
	}
	return errors.Join(errs...)
}

// LiveURL turns the API base url into the notulen socket url.
func (c Config) LiveURL() string {
	u := c.APIBaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws/notulen"
}
