package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/slidecast/internal/api"
	"github.com/dgallion1/slidecast/internal/config"
	"github.com/dgallion1/slidecast/internal/metrics"
	"github.com/dgallion1/slidecast/internal/pipeline"
	"github.com/dgallion1/slidecast/internal/podcast"
	"github.com/dgallion1/slidecast/internal/render"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load(log)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	theme := render.DefaultTheme()
	if cfg.ThemeFile != "" {
		t, err := render.LoadTheme(cfg.ThemeFile)
		if err != nil {
			log.Error("invalid theme", "path", cfg.ThemeFile, "error", err)
			os.Exit(1)
		}
		theme = t
	}

	m := metrics.New()

	slides := pipeline.NewSlides(cfg.OutputDir, theme, log)
	slides.Observer = m

	// Speech is optional for the server; without credentials the podcast
	// endpoint answers 503.
	var driver *podcast.Driver
	if cfg.Speech.Configured() {
		d, err := podcast.NewDriver(cfg.Speech, log)
		if err != nil {
			log.Error("failed to initialize speech driver", "error", err)
			os.Exit(1)
		}
		d.Observer = m
		driver = d
	} else {
		log.Warn("speech synthesis disabled", "reason", cfg.Speech.Validate().Error())
	}

	srv := api.NewServer(slides, driver, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting slidecast", "port", cfg.Port, "output_dir", cfg.OutputDir, "speech", driver != nil)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
