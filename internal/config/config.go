package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Folder       string
}

// Enabled reports whether uploads can be sent to Cloudinary. Uploads and
// deletes are signed, so the API key and secret are required.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

// Enabled reports whether originals should be archived in the bucket.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type EmailConfig struct {
	APIKey            string
	FromAddress       string
	FromName          string
	NotulenRecipients []string
}

func (c EmailConfig) Enabled() bool {
	return c.APIKey != "" && c.FromAddress != "" && len(c.NotulenRecipients) > 0
}

type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	DatabaseURL   string
	JWTSecret     string
	CORSOrigins   string
	RateLimit     int
	MaxUploadSize int64
	Workers       int
	Cloudinary    CloudinaryConfig
	R2            R2Config
	Email         EmailConfig
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     firstEnv("SUPABASE_JWT_SECRET", "JWT_SECRET"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		RateLimit:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,
		Workers:       getEnvInt("WORKERS", 8),
	}

	// The dashboard's VITE_* names are accepted so one .env file serves both.
	cfg.Cloudinary.CloudName = firstEnv("CLOUDINARY_CLOUD_NAME", "VITE_CLOUDINARY_CLOUD_NAME")
	cfg.Cloudinary.APIKey = firstEnv("CLOUDINARY_API_KEY", "VITE_CLOUDINARY_API_KEY")
	cfg.Cloudinary.APISecret = os.Getenv("CLOUDINARY_API_SECRET")
	cfg.Cloudinary.UploadPreset = firstEnv("CLOUDINARY_UPLOAD_PRESET", "VITE_CLOUDINARY_UPLOAD_PRESET")
	cfg.Cloudinary.Folder = getEnv("CLOUDINARY_FOLDER", "dkl25")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.Endpoint = os.Getenv("R2_ENDPOINT")

	cfg.Email.APIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "DKL Admin")
	cfg.Email.NotulenRecipients = splitList(os.Getenv("NOTULEN_NOTIFY_EMAILS"))

	return cfg
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET is not set"))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE_MB must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
