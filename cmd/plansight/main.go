package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plansight/plansight/internal/annotate"
	"github.com/plansight/plansight/internal/config"
	"github.com/plansight/plansight/internal/ocr"
	"github.com/plansight/plansight/internal/server"
	"github.com/plansight/plansight/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const gracefulShutdownTimeout = 10 * time.Second

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plansight %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("plansight - construction-drawing annotation extraction service")
			fmt.Println()
			fmt.Println("Usage: plansight [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PORT                  HTTP listen port (default 8000)")
			fmt.Println("  MAX_UPLOAD_SIZE       Upload size limit in bytes (default 50MB)")
			fmt.Println("  DATABASE_URL          Enables session and activity-log endpoints")
			fmt.Println("  SHEET_SERIES_LETTER   Default series letter for bare page refs (default A)")
			fmt.Println("  OCR_LANGUAGE          Tesseract language (default eng)")
			fmt.Println("  SUPPRESS_GRID_LINES   Remove long grid lines before page OCR (default false)")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	opts := annotate.DefaultOptions()
	opts.DefaultSheetLetter = cfg.SheetSeriesLetter
	opts.SuppressLines = cfg.SuppressGridLines
	detector := annotate.New(ocr.NewTesseract(cfg.OCRLanguage), opts)

	var st *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		st, err = store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := st.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("Schema setup failed: %v", err)
		}
		cancel()
		log.Println("Session and activity-log endpoints enabled")
	} else {
		log.Println("DATABASE_URL not set, running detection-only")
	}

	router := server.New(detector, st, cfg.MaxUploadSize).Router()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("plansight %s listening on %s", Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
