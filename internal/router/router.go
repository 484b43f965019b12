package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/metrics"
	"github.com/opol-agri/rsbsa-lambda/internal/middlewares"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

type HealthChecker func(ctx context.Context) error

type RouterConfig struct {
	UserHandler        *user.Handler
	BeneficiaryHandler *beneficiary.Handler
	FarmProfileHandler *farmprofile.Handler
	FarmParcelHandler  *farmparcel.Handler
	EnrollmentHandler  *enrollment.Handler
	// Checks run by /health; a failing one turns the response into 503.
	HealthChecks map[string]HealthChecker
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.Metrics)

	r.Get("/health", health(cfg.HealthChecks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.GoogleLogin)
		r.Post("/refresh", cfg.UserHandler.RefreshToken)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/beneficiary-details", beneficiary.Routes(cfg.BeneficiaryHandler))
		r.Mount("/farm-profiles", farmprofile.Routes(cfg.FarmProfileHandler, cfg.FarmParcelHandler))
		r.Mount("/farm-parcels", farmparcel.Routes(cfg.FarmParcelHandler))
		r.Mount("/rsbsa-enrollments", enrollment.Routes(cfg.EnrollmentHandler))
		r.Mount("/rsbsa-verification", enrollment.VerificationRoutes(cfg.EnrollmentHandler))

		r.Get("/livelihood-categories", cfg.FarmProfileHandler.ListCategories)
	})
	return r
}

func health(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				config.WithContext(ctx).WithError(err).Warnf("Health check %s failed", name)
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}

		config.JSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": results,
		})
	}
}
