// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/catalog"
	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database"
	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/database/categories"
	"github.com/bookmaster/bookmaster/internal/database/users"
	http_controllers "github.com/bookmaster/bookmaster/internal/http"
	"github.com/bookmaster/bookmaster/internal/scheduler"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt or termination signal,
// then shuts down gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds the application from its configuration and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Book Master v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	fileStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatalf("Failed to initialize uploads dir: %v", err)
	}
	log.Printf("Uploads stored at %s (max %d bytes per file)", fileStore.Dir(), cfg.Uploads.MaxSizeBytes)

	usersRepo := users.NewRepository(db.DB)
	categoriesRepo := categories.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)

	bookService := catalog.NewBookService(booksRepo, categoriesRepo, fileStore)
	categoryService := catalog.NewCategoryService(categoriesRepo)
	statsService := catalog.NewStatsService(booksRepo)

	authService := auth.NewService(usersRepo, cfg.Auth)

	// Get underlying SQL DB for session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set SESSION_SECRET to persist across restarts)")
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:           db,
		Books:              bookService,
		Categories:         categoryService,
		Stats:              statsService,
		AuthService:        authService,
		SessionManager:     sessionManager,
		AuthMiddleware:     authMiddleware,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Auth.SecureCookies,
		MaxUploadSizeBytes: cfg.Uploads.MaxSizeBytes,
		TemplatesPath:      cfg.UI.TemplatesPath,
		StaticPath:         cfg.UI.StaticPath,
		Version:            version,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	sweepScheduler := scheduler.NewUploadSweepScheduler(
		catalog.NewSweepService(booksRepo, fileStore),
		cfg.Sweep,
	)
	if err := sweepScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start upload sweep scheduler: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		sweepScheduler.Stop()
	}

	Serve(router, cfg, onShutdown)
}
