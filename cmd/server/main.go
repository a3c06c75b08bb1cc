// Package main is the entry point for the PDF Toolkit API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/config"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/database"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/router"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/services/process"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PDF Toolkit API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, workers=%d, gin_mode=%s", cfg.Port, cfg.WorkerCount, cfg.GinMode)
	log.Printf("🔧 Processing service: %s", cfg.ProcessorURL)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	// Run migrations
	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Step 3: Load the Tool Registry
	registry, err := tools.Load(cfg.ToolsPath)
	if err != nil {
		log.Fatalf("❌ Failed to load tool registry: %v", err)
	}
	log.Printf("✅ Tool registry loaded: %s", strings.Join(registry.Names(), ", "))

	// Step 4: Create Services
	sessions := session.NewStore(cfg.SessionTTL)
	defer sessions.Close()
	log.Printf("✅ Session store initialized (ttl=%s)", cfg.SessionTTL)

	client := process.New(cfg.ProcessorURL, cfg.ProcessorTimeout, cfg.ProcessorRPS, cfg.ProcessorBurst)

	// Step 5: Create and Start Worker Pool
	pool := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, db, sessions, client)
	pool.Start()
	defer pool.Stop()

	// Step 6: Setup HTTP Router
	r := router.Setup(db, sessions, registry, pool, cfg)

	// Step 7: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 8: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
