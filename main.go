package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/secret-draw/cliparse"
	"github.com/danielhkuo/secret-draw/mailer"
	"github.com/danielhkuo/secret-draw/middleware"
	"github.com/danielhkuo/secret-draw/router"
	"github.com/danielhkuo/secret-draw/store"
)

func main() {
	var err error

	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the participant store (creates the schema for SQL backends)
	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("store open failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Store ready", "store", cfg.StoreType)

	if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
		slog.Warn("SMTP credentials not set, draws will not deliver email")
	}

	// Create router
	mux := router.NewRouter(st, mailer.NewSMTPMailer(cfg), cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "year", cfg.EventYear)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
