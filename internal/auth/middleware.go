package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

type ctxKey struct{}

var ErrNoClaims = errors.New("no user claims in context")

const TokenCookieName = "jwt"

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// TokenFromRequest prefers the Authorization header and falls back to the cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := TokenFromRequest(r)
		if tokenStr == "" {
			config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "missing token"))
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid JWT")
			config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole rejects callers whose role is not listed. Must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetUserClaimsFromContext(r.Context())
			if err != nil {
				config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "unauthorized"))
				return
			}
			if !slices.Contains(roles, claims.Role) {
				config.WithContext(r.Context()).WithField("user_id", claims.UserID).
					Warnf("Role %q denied", claims.Role)
				config.Fail(w, r, apperror.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentClaims returns the caller's claims or writes a 401 and reports false.
func CurrentClaims(w http.ResponseWriter, r *http.Request) (*Claims, bool) {
	claims, err := GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "unauthorized"))
		return nil, false
	}
	return claims, true
}
