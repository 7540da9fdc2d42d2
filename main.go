package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/phillip/nonprofit-site-go/app"
	config "github.com/phillip/nonprofit-site-go/config"
	routes "github.com/phillip/nonprofit-site-go/routes"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := utils.NewLogger("production")
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := utils.NewLogger(cfg.AppEnv)

	// 2. Open store
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	backend, err := app.OpenBackend(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	// 3. Handlers and routes
	env, err := app.NewEnv(cfg, log, backend)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise dependencies")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.SetupRoutes(r, env)

	// 4. Start server with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}
