package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/studiostorm/server/internal/config"
	"github.com/studiostorm/server/internal/handlers"
	custommw "github.com/studiostorm/server/internal/middleware"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
	"github.com/studiostorm/server/internal/services"
)

func main() {
	logger := observability.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	telemetry, err := observability.InitTelemetry(ctx,
		observability.NewTelemetryConfig("studiostorm-server", handlers.Version))
	if err != nil {
		logger.Warnf("Telemetry initialization failed: %v", err)
	}

	var db *sql.DB
	if cfg.UsePostgres() {
		logger.Info("Using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
	} else {
		logger.Info("Using SQLite database")
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
	}
	if err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	photoRepo := repository.NewPhotoRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	galleryLikeRepo := repository.NewGalleryLikeRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	// Services
	storageService, err := services.NewStorageService(
		cfg.UploadStorage.BasePath,
		cfg.UploadStorage.AllowedExtensions,
		cfg.UploadStorage.MaxFileSizeMB,
	)
	if err != nil {
		logger.Errorf("Failed to initialize storage service: %v", err)
		os.Exit(1)
	}

	exifService := services.NewExifService()
	thumbnailService := services.NewThumbnailService(storageService.BasePath())
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, cfg.Security.TokenDurationHours)
	albumService := services.NewAlbumService(albumRepo, photoRepo)
	galleryService := services.NewGalleryService(galleryRepo, galleryLikeRepo, userRepo)
	accessService := services.NewAccessService(galleryRepo)
	likeService := services.NewLikeService(photoRepo, galleryRepo, likeRepo, galleryLikeRepo)

	bootstrapAdmin(ctx, authService, logger)

	// Metrics instruments
	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		logger.Warnf("Failed to create HTTP metrics: %v", err)
	}
	likeMetrics, err := observability.NewLikeMetrics()
	if err != nil {
		logger.Warnf("Failed to create like metrics: %v", err)
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	photoHandler := handlers.NewPhotoHandler(photoRepo, likeService, likeMetrics)
	albumHandler := handlers.NewAlbumHandler(albumService, albumRepo, photoRepo)
	galleryHandler := handlers.NewGalleryHandler(accessService, galleryService, likeService, storageService, likeMetrics)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(
		photoRepo, albumService, galleryService, authService,
		storageService, exifService, thumbnailService,
		cfg.UploadStorage.MaxFileSizeMB,
	)
	organizationHandler := handlers.NewOrganizationHandler(orgRepo)
	docsHandler := handlers.NewDocsHandler()

	likeLimiter := custommw.NewRateLimiter(
		time.Duration(cfg.LikeLimit.WindowMinutes)*time.Minute,
		cfg.LikeLimit.MaxPerWindow,
		likeMetrics,
	)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware("studiostorm-server"))
	if httpMetrics != nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	}

	r.Get("/api/health", healthHandler.HealthCheck)
	r.Get("/api/version", healthHandler.VersionInfo)

	r.Route("/api/photos", func(r chi.Router) {
		r.Get("/", photoHandler.ListPhotos)
		r.Get("/featured/list", photoHandler.ListFeatured)
		r.Get("/{id}", photoHandler.GetPhoto)
		r.With(likeLimiter.Middleware("catalog")).Patch("/{id}/like", photoHandler.ToggleLike)
	})

	r.Route("/api/albums", func(r chi.Router) {
		r.Get("/", albumHandler.ListAlbums)
		r.Get("/main", albumHandler.ListMainAlbums)
		r.Get("/slug/*", albumHandler.GetAlbumBySlug)
		r.Get("/{id}", albumHandler.GetAlbum)
		r.Get("/{id}/subalbums", albumHandler.ListSubAlbums)
		r.Get("/{id}/photos", albumHandler.ListAlbumPhotos)
	})

	r.Get("/api/organizations", organizationHandler.ListOrganizations)

	r.Route("/api/galleries", func(r chi.Router) {
		r.Use(custommw.OptionalAuth(authService))
		r.Get("/{token}", galleryHandler.GetGallery)
		r.Post("/{token}/verify-password", galleryHandler.VerifyPassword)
		r.With(likeLimiter.Middleware("gallery")).Patch("/{token}/photos/{photoId}/like", galleryHandler.ToggleLike)
		r.Get("/{token}/photos/{photoId}/download", galleryHandler.DownloadPhoto)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.With(custommw.RequireAuth(authService)).Get("/me", authHandler.Me)
	})

	r.With(custommw.RequireAuth(authService)).Get("/api/client/galleries", galleryHandler.ListClientGalleries)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(custommw.RequireAdmin(authService))

		r.Post("/photos", adminHandler.UploadPhoto)
		r.Patch("/photos/{id}", adminHandler.UpdatePhoto)
		r.Delete("/photos/{id}", adminHandler.DeletePhoto)

		r.Post("/albums", adminHandler.CreateAlbum)
		r.Patch("/albums/{id}", adminHandler.UpdateAlbum)
		r.Delete("/albums/{id}", adminHandler.DeleteAlbum)

		r.Post("/client-galleries", adminHandler.CreateGallery)
		r.Get("/client-galleries", adminHandler.ListGalleries)
		r.Get("/client-galleries/{id}", adminHandler.GetGallery)
		r.Patch("/client-galleries/{id}", adminHandler.UpdateGallery)
		r.Delete("/client-galleries/{id}", adminHandler.DeleteGallery)
		r.Post("/client-galleries/{id}/photos", adminHandler.UploadGalleryPhoto)
		r.Post("/client-galleries/{id}/recount-likes", adminHandler.RecountGalleryLikes)

		r.Post("/accounts", adminHandler.CreateClientAccount)
	})

	r.Get("/api/docs/openapi.json", docsHandler.Spec)
	r.Get("/api/docs/*", docsHandler.UI())

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(storageService.BasePath())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("StudioStorm server starting on %s", cfg.ServerAddress)
		logger.Infof("Upload storage path: %s", cfg.UploadStorage.BasePath)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Telemetry shutdown: %v", err)
		}
	}

	logger.Info("Server stopped")
}

// bootstrapAdmin creates the initial admin account from the environment
// when no admin exists yet
func bootstrapAdmin(ctx context.Context, authService *services.AuthService, logger *observability.Logger) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" {
		username = "admin"
	}
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set; skipping admin bootstrap")
		return
	}

	created, err := authService.EnsureAdmin(ctx, username, password)
	if err != nil {
		logger.Errorf("Admin bootstrap failed: %v", err)
		return
	}
	if created {
		logger.Infof("Bootstrap admin account %q created", username)
	}
}
