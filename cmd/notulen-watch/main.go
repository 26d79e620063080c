// Command notulen-watch signs in with the admin credentials and logs the
// live notulen events, optionally for a single notulen.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dkl25/admin-api/pkg/client"
	"github.com/dkl25/admin-api/pkg/logger"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	notulenID := flag.String("notulen", "", "only watch this notulen id")
	keepFilter := flag.Bool("keep-filter", false, "keep the notulen filter after a reconnect")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	zlog, err := logger.New(envOr("LOG_LEVEL", "info"), envOr("ENVIRONMENT", "development"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	cfg, err := client.ConfigFromEnv()
	if err != nil {
		zlog.Fatal("invalid client configuration", zap.Error(err))
	}

	home, _ := os.UserConfigDir()
	store := client.NewFileTokenStore(filepath.Join(home, "dkl25-admin", "session.json"))
	session := client.NewSupabaseSession(cfg, store, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if _, err := session.Login(ctx, email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			zlog.Fatal("login failed", zap.Error(err))
		}
	}

	live := client.NewLiveClient(cfg, session, client.LiveOptions{
		KeepFilterOnReconnect: *keepFilter,
		OnGiveUp:              stop,
	}, zlog)
	live.OnMessage(func(msg models.LiveMessage) {
		fields := []zap.Field{zap.String("type", string(msg.Type)), zap.String("notulen_id", msg.NotulenID)}
		if n, err := msg.Notulen(); err == nil {
			fields = append(fields, zap.String("titel", n.Titel), zap.Int("versie", n.Versie), zap.String("status", string(n.Status)))
		}
		if msg.Message != "" {
			fields = append(fields, zap.String("message", msg.Message))
		}
		zlog.Info("live event", fields...)
	})

	if err := live.Connect(ctx, *notulenID); err != nil {
		zlog.Fatal("failed to connect", zap.Error(err))
	}

	<-ctx.Done()
	live.Disconnect()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
