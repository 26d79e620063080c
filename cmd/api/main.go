package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkl25/admin-api/internal/config"
	"github.com/dkl25/admin-api/internal/handler"
	"github.com/dkl25/admin-api/internal/middleware"
	"github.com/dkl25/admin-api/internal/realtime"
	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/database"
	"github.com/dkl25/admin-api/pkg/email"
	"github.com/dkl25/admin-api/pkg/logger"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/storage"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env; a missing file is fine in deployed environments
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	albumRepo := repository.NewAlbumRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	sponsorRepo := repository.NewCatalogRepository[models.Sponsor](db)
	partnerRepo := repository.NewCatalogRepository[models.Partner](db)
	videoRepo := repository.NewCatalogRepository[models.Video](db)
	titleRepo := repository.NewTitleSectionRepository(db)
	notulenRepo := repository.NewNotulenRepository(db)

	// Storage services
	var media storage.MediaService
	if cfg.Cloudinary.Enabled() {
		cld, err := storage.NewCloudinary(cfg.Cloudinary, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize cloudinary", zap.Error(err))
		}
		media = cld
	} else {
		zlog.Warn("cloudinary is not configured, uploads are disabled")
	}

	var archive storage.ObjectStore
	if cfg.R2.Enabled() {
		bucket, err := storage.NewBucketStorage(context.Background(), cfg.R2)
		if err != nil {
			zlog.Fatal("failed to initialize R2 storage", zap.Error(err))
		}
		archive = bucket
	}

	// Email service
	var notifier service.Notifier
	if cfg.Email.Enabled() {
		notifier = email.NewNotulenMailer(cfg.Email, zlog)
	}

	validator := utils.NewValidator()
	hub := realtime.NewHub(zlog)

	// Services
	mediaService := service.NewMediaService(media, archive, cfg.MaxUploadSize, cfg.Cloudinary.Folder, zlog)
	albumService := service.NewAlbumService(albumRepo, validator, zlog)
	photoService := service.NewPhotoService(photoRepo, mediaService, validator, cfg.Workers, zlog)
	sponsorService := service.NewSponsorService(sponsorRepo, validator, zlog)
	partnerService := service.NewPartnerService(partnerRepo, validator, zlog)
	videoService := service.NewVideoService(videoRepo, validator, zlog)
	titleService := service.NewTitleSectionService(titleRepo, mediaService, validator)
	notulenService := service.NewNotulenService(notulenRepo, validator, hub, notifier, zlog)

	// Handlers
	handlers := handler.Handlers{
		Album:        handler.NewAlbumHandler(albumService, zlog),
		Photo:        handler.NewPhotoHandler(photoService, zlog),
		Sponsor:      handler.NewCatalogHandler[models.Sponsor, models.SponsorRequest](sponsorService, mediaService, zlog),
		Partner:      handler.NewCatalogHandler[models.Partner, models.PartnerRequest](partnerService, mediaService, zlog),
		Video:        handler.NewCatalogHandler[models.Video, models.VideoRequest](videoService, mediaService, zlog),
		TitleSection: handler.NewTitleSectionHandler(titleService, zlog),
		Notulen:      handler.NewNotulenHandler(notulenService, zlog),
		Live:         handler.NewLiveHandler(hub, notulenService),
	}

	// Router
	app := fiber.New(fiber.Config{
		AppName:   "dkl25-admin-api",
		BodyLimit: int(cfg.MaxUploadSize) + 1024*1024,
	})

	// Global middleware first
	app.Use(recover.New())
	app.Use(middleware.TraceID())
	app.Use(middleware.RequestLogger(zlog))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Trace-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	handler.RegisterRoutes(app.Group("/api"), handlers, cfg.JWTSecret)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
