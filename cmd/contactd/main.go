// Command contactd serves the contact form mail relay.
//
// Configuration is read from a TOML file (optional) and the EMAIL_USER and
// EMAIL_PASSWORD environment variables, which override the file:
//
//	addr = ":8080"
//	path = "/api/contact"
//
//	[smtp]
//	host = "smtp.gmail.com"
//	port = 587
//	to   = "inbox@example.com"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/phanxgames/backdrop/contact"
)

const (
	defaultConfigPath = "contactd.toml"
	shutdownTimeout   = 10 * time.Second
)

type config struct {
	Addr string             `toml:"addr"`
	Path string             `toml:"path"`
	SMTP contact.SMTPConfig `toml:"smtp"`
}

func defaultConfig() config {
	return config{
		Addr: ":8080",
		Path: "/api/contact",
		SMTP: contact.DefaultSMTPConfig(),
	}
}

// loadConfig decodes path over the defaults. A missing file at the default
// path is not an error.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("CONTACT_TO"); v != "" {
		cfg.SMTP.To = v
	}

	var errs []error
	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		errs = append(errs, errors.New("EMAIL_USER and EMAIL_PASSWORD must be set"))
	}
	if cfg.SMTP.To == "" {
		errs = append(errs, errors.New("smtp.to must be set"))
	}
	return cfg, errors.Join(errs...)
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		slog.Error("invalid configuration", "config", *configPath, "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, contact.NewHandler(contact.NewSMTPMailer(cfg.SMTP), logger))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting contact relay", "addr", cfg.Addr, "path", cfg.Path, "smtp", cfg.SMTP.Host)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal")
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("contact relay stopped")
}
