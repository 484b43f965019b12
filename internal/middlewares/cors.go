package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

// Cors allows credentialed requests from the listed origins only. A "*" entry is dropped:
// the session cookie must never be sent on behalf of an arbitrary site.
func Cors(allowed []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			config.Logger.Warn("Ignoring wildcard CORS origin, credentials are enabled")
			continue
		}
		origins = append(origins, o)
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// CorsMiddleware reads the allow list from CORS_ALLOWED_ORIGINS.
func CorsMiddleware(next http.Handler) http.Handler {
	return Cors(config.GetEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))(next)
}
