package enrollment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type apiHarness struct {
	t      *testing.T
	router http.Handler
}

func newAPIHarness(t *testing.T) *apiHarness {
	us := users{
		farmerID:      {ID: farmerID, Name: "Juan Dela Cruz", Role: auth.RoleBeneficiary},
		coordinatorID: {ID: coordinatorID, Name: "Coordinator", Role: auth.RoleCoordinator},
	}
	bens := beneficiaries{1: {ID: 1, UserID: farmerID, Fname: "Juan", Lname: "Dela Cruz"}}
	profs := profiles{10: {ID: 10, BeneficiaryID: 1, LivelihoodCategoryID: farmprofile.CategoryFarmer}}

	svc := enrollment.NewService(newMemoryRepo(us, bens), us, bens, profs, enrollment.WithClock(func() time.Time {
		return time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	}))
	h := enrollment.NewHandler(svc)

	r := chi.NewRouter()
	// X-Test-User and X-Test-Role stand in for a verified token.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Header.Get("X-Test-Role")
			if role == "" {
				next.ServeHTTP(w, r)
				return
			}
			id := farmerID
			if role != auth.RoleBeneficiary {
				id = coordinatorID
			}
			ctx := auth.WithClaims(r.Context(), &auth.Claims{UserID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Mount("/rsbsa-enrollments", enrollment.Routes(h))
	r.Mount("/rsbsa-verification", enrollment.VerificationRoutes(h))

	return &apiHarness{t: t, router: r}
}

func (a *apiHarness) do(method, path, role, body string) (int, envelope) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(context.Background())
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestEnrollmentAPI(t *testing.T) {
	api := newAPIHarness(t)
	farmer, staff := auth.RoleBeneficiary, auth.RoleCoordinator

	code, env := api.do(http.MethodGet, "/rsbsa-enrollments/user/7", farmer, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No RSBSA enrollment found for this user", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments", farmer,
		`{"user_id":7,"beneficiary_id":1,"farm_profile_id":10,"enrollment_type":"new"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "RSBSA enrollment created successfully", env.Message)

	var created enrollment.EnrollmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "RSBSA-2025-000001", created.ApplicationReferenceCode)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments", farmer,
		`{"user_id":7,"beneficiary_id":1,"farm_profile_id":10,"enrollment_type":"new","enrollment_year":2025}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already has an enrollment for this year", env.Message)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments", farmer, `{"user_id":7,"enrollment_type":"lifetime"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "beneficiary_id")
	assert.Contains(t, env.Errors, "enrollment_type")

	code, _ = api.do(http.MethodPost, "/rsbsa-enrollments/1/approve", farmer, `{"assigned_rsbsa_number":"10-43"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments/1/approve", staff, `{"assigned_rsbsa_number":"10-43"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Enrollment cannot be approved in current status", env.Message)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments/1/submit", farmer, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Enrollment submitted for review successfully", env.Message)

	code, env = api.do(http.MethodDelete, "/rsbsa-enrollments/1", farmer, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Only draft enrollments can be deleted", env.Message)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments/1/assign-reviewer", staff, "")
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments/1/reject", staff, `{"rejection_reason":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "rejection_reason")

	code, env = api.do(http.MethodPost, "/rsbsa-enrollments/1/reject", staff, `{"rejection_reason":"missing documents"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Enrollment rejected successfully", env.Message)

	code, env = api.do(http.MethodGet, "/rsbsa-enrollments/1/status", farmer, "")
	require.Equal(t, http.StatusOK, code)
	var status enrollment.StatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "Rejected", status.StatusDisplay)
	assert.True(t, status.IsCompleted)
	assert.False(t, status.CanReject)

	code, env = api.do(http.MethodGet, "/rsbsa-enrollments/1/history", farmer, "")
	require.Equal(t, http.StatusOK, code)
	var history []enrollment.StatusHistory
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 4)
}

func TestEnrollmentListAndStatistics(t *testing.T) {
	api := newAPIHarness(t)

	code, _ := api.do(http.MethodPost, "/rsbsa-enrollments", auth.RoleBeneficiary,
		`{"user_id":7,"beneficiary_id":1,"farm_profile_id":10,"enrollment_type":"new"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env := api.do(http.MethodGet, "/rsbsa-enrollments?status=draft&year=2025&per_page=500", auth.RoleCoordinator, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "RSBSA enrollments retrieved successfully", env.Message)
	var meta struct {
		Total   int64 `json:"total"`
		PerPage int   `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, 100, meta.PerPage)

	code, _ = api.do(http.MethodGet, "/rsbsa-enrollments?year=last", auth.RoleCoordinator, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodGet, "/rsbsa-enrollments/statistics", auth.RoleBeneficiary, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodGet, "/rsbsa-enrollments/statistics", auth.RoleCoordinator, "")
	require.Equal(t, http.StatusOK, code)
	var stats enrollment.Statistics
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalEnrollments)
	assert.Equal(t, int64(1), stats.ByYear[2025])

	code, _ = api.do(http.MethodGet, "/rsbsa-enrollments/abc", auth.RoleCoordinator, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodGet, "/rsbsa-enrollments/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestVerificationEndpoint(t *testing.T) {
	api := newAPIHarness(t)

	code, env := api.do(http.MethodPost, "/rsbsa-verification", auth.RoleBeneficiary, `{"rsbsa_number":"10-43-07"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "RSBSA number not found", env.Message)

	code, env = api.do(http.MethodPost, "/rsbsa-verification", auth.RoleBeneficiary, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "rsbsa_number")
}
