package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/router"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

func newRouter(checks map[string]router.HealthChecker) http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:        user.NewHandler(nil),
		BeneficiaryHandler: beneficiary.NewHandler(nil),
		FarmProfileHandler: farmprofile.NewHandler(nil),
		FarmParcelHandler:  farmparcel.NewHandler(nil),
		EnrollmentHandler:  enrollment.NewHandler(nil),
		HealthChecks:       checks,
	})
}

func TestHealth(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		h := newRouter(map[string]router.HealthChecker{"database": func(context.Context) error { return nil }})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "up", body.Checks["database"])
	})

	t.Run("Down", func(t *testing.T) {
		h := newRouter(map[string]router.HealthChecker{"redis": func(context.Context) error { return errors.New("refused") }})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newRouter(nil)
	for _, path := range []string{"/rsbsa-enrollments", "/beneficiary-details/1", "/farm-profiles/1", "/livelihood-categories", "/users/me"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
