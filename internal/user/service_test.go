package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
)

type memoryRepo struct {
	users  map[uint]*User
	nextID uint
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[uint]*User{}}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryRepo) Update(_ context.Context, u *User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uint) (*User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) GetByGoogleID(_ context.Context, googleID string) (*User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

type stubProvider struct {
	identity *GoogleIdentity
	err      error
}

func (p stubProvider) Identify(context.Context, string) (*GoogleIdentity, error) {
	return p.identity, p.err
}

type prefixSealer struct{}

func (prefixSealer) Encrypt(s string) (string, error) { return "sealed:" + s, nil }

func setupAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste-com-tamanho-suficiente")
	auth.Init()
}

func TestGoogleLoginCreatesBeneficiary(t *testing.T) {
	setupAuth(t)
	repo := newMemoryRepo()
	svc := NewService(repo, stubProvider{identity: &GoogleIdentity{
		ID: "g-1", Email: "juan@example.ph", VerifiedEmail: true, Name: "Juan Dela Cruz", RefreshToken: "rt",
	}}, prefixSealer{}, RoleAssignments{})

	session, err := svc.GoogleLogin(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleBeneficiary, session.User.Role)
	assert.Equal(t, "sealed:rt", repo.users[session.User.ID].EncryptedGoogleRefreshToken)

	claims, err := auth.ValidateJWT(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
}

func TestGoogleLoginPromotesConfiguredStaff(t *testing.T) {
	setupAuth(t)
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), &User{Name: "Maria", Email: "maria@opol.gov.ph", Role: auth.RoleBeneficiary}))

	svc := NewService(repo, stubProvider{identity: &GoogleIdentity{
		ID: "g-2", Email: "maria@opol.gov.ph", VerifiedEmail: true, Name: "Maria",
	}}, prefixSealer{}, RoleAssignments{Coordinators: []string{"MARIA@opol.gov.ph"}})

	session, err := svc.GoogleLogin(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, uint(1), session.User.ID)
	assert.Equal(t, auth.RoleCoordinator, session.User.Role)
	require.NotNil(t, repo.users[1].GoogleID)
	assert.Equal(t, "g-2", *repo.users[1].GoogleID)
}

func TestGoogleLoginFailures(t *testing.T) {
	setupAuth(t)

	t.Run("EmptyCode", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), stubProvider{}, prefixSealer{}, RoleAssignments{})
		_, err := svc.GoogleLogin(context.Background(), " ")
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("ExchangeFails", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), stubProvider{err: ErrGoogleExchange}, prefixSealer{}, RoleAssignments{})
		_, err := svc.GoogleLogin(context.Background(), "bad")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
		assert.True(t, errors.Is(err, ErrGoogleExchange))
	})

	t.Run("UnverifiedEmail", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), stubProvider{identity: &GoogleIdentity{ID: "g", Email: "x@y.z"}}, prefixSealer{}, RoleAssignments{})
		_, err := svc.GoogleLogin(context.Background(), "code")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})
}

func TestRefreshUnknownUser(t *testing.T) {
	setupAuth(t)
	svc := NewService(newMemoryRepo(), stubProvider{}, prefixSealer{}, RoleAssignments{})
	_, err := svc.Refresh(context.Background(), 99)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestGoogleProviderIdentify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","refresh_token":"rt","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"g-9","email":"ana@example.ph","verified_email":true,"name":"Ana"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := NewGoogleOAuthConfig("client", "secret", "http://localhost/callback")
	cfg.Endpoint.TokenURL = srv.URL + "/token"
	p := &googleProvider{oauthConfig: cfg, userInfoURL: srv.URL + "/userinfo"}

	identity, err := p.Identify(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "g-9", identity.ID)
	assert.Equal(t, "ana@example.ph", identity.Email)
	assert.Equal(t, "rt", identity.RefreshToken)
}
