package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
	"github.com/opol-agri/rsbsa-lambda/internal/container"
	"github.com/opol-agri/rsbsa-lambda/internal/router"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx)
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to initialise application")
	}
	defer func() {
		if err := c.Close(); err != nil {
			config.Logger.WithError(err).Warn("Failed to close resources")
		}
	}()

	srv := &http.Server{
		Addr:              ":" + config.GetEnv("PORT", "8080"),
		Handler:           router.New(routerConfig(c)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		config.Logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func routerConfig(c *container.Container) router.RouterConfig {
	cfg := router.RouterConfig{
		UserHandler:        c.UserContainer.Handler,
		BeneficiaryHandler: c.BeneficiaryContainer.Handler,
		FarmProfileHandler: c.FarmProfileContainer.Handler,
		FarmParcelHandler:  c.FarmProfileContainer.ParcelContainer.Handler,
		EnrollmentHandler:  c.EnrollmentContainer.Handler,
		HealthChecks: map[string]router.HealthChecker{
			"database": func(ctx context.Context) error {
				sqlDB, err := config.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	}
	if c.Cache != nil {
		cfg.HealthChecks["redis"] = c.Cache.Health
	}
	return cfg
}
