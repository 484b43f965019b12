package user

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

const SessionDuration = 24 * time.Hour

// Sealer encrypts secrets before they are stored.
type Sealer interface {
	Encrypt(plaintext string) (string, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UserService interface {
	GoogleLogin(ctx context.Context, code string) (*Session, error)
	Refresh(ctx context.Context, userID uint) (*Session, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}

type RoleAssignments struct {
	Admins       []string
	Coordinators []string
}

type userService struct {
	repo     UserRepository
	provider IdentityProvider
	sealer   Sealer
	roles    RoleAssignments
	now      func() time.Time
}

func NewService(repo UserRepository, provider IdentityProvider, sealer Sealer, roles RoleAssignments) UserService {
	return &userService{
		repo:     repo,
		provider: provider,
		sealer:   sealer,
		roles:    roles,
		now:      time.Now,
	}
}

func (s *userService) GoogleLogin(ctx context.Context, code string) (*Session, error) {
	log := config.WithContext(ctx)

	if strings.TrimSpace(code) == "" {
		return nil, apperror.Validation("The given data was invalid.", map[string]string{"code": "The code field is required."})
	}

	identity, err := s.provider.Identify(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Google sign-in failed")
		return nil, apperror.Wrap(err, apperror.CodeUnauthorized, "google sign-in failed")
	}
	if identity.Email == "" || !identity.VerifiedEmail {
		return nil, apperror.New(apperror.CodeUnauthorized, "google account email is not verified")
	}

	u, err := s.findForIdentity(ctx, identity)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}

	isNew := u == nil
	if isNew {
		u = &User{Role: auth.RoleBeneficiary}
	}
	u.Name = identity.Name
	u.Email = identity.Email
	u.Picture = identity.Picture
	googleID := identity.ID
	u.GoogleID = &googleID
	u.Role = s.roleFor(identity.Email, u.Role)

	if identity.RefreshToken != "" {
		sealed, err := s.sealer.Encrypt(identity.RefreshToken)
		if err != nil {
			return nil, apperror.Internal(err, "failed to seal google token")
		}
		u.EncryptedGoogleRefreshToken = sealed
	}

	if isNew {
		err = s.repo.Create(ctx, u)
	} else {
		err = s.repo.Update(ctx, u)
	}
	if err != nil {
		log.WithError(err).WithField("email", identity.Email).Error("Failed to persist user")
		return nil, apperror.Internal(err, "failed to save user")
	}

	log.WithFields(logrus.Fields{"user_id": u.ID, "new": isNew}).Info("User signed in")
	return s.issue(u)
}

func (s *userService) Refresh(ctx context.Context, userID uint) (*Session, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *userService) GetByID(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}
	return u, nil
}

func (s *userService) findForIdentity(ctx context.Context, identity *GoogleIdentity) (*User, error) {
	u, err := s.repo.GetByGoogleID(ctx, identity.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u, err = s.repo.GetByEmail(ctx, identity.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return u, err
}

// roleFor promotes configured staff emails; other accounts keep their stored role.
func (s *userService) roleFor(email, current string) string {
	email = strings.ToLower(email)
	switch {
	case slices.ContainsFunc(s.roles.Admins, func(e string) bool { return strings.ToLower(e) == email }):
		return auth.RoleAdmin
	case slices.ContainsFunc(s.roles.Coordinators, func(e string) bool { return strings.ToLower(e) == email }):
		return auth.RoleCoordinator
	default:
		return current
	}
}

func (s *userService) issue(u *User) (*Session, error) {
	token, err := auth.GenerateJWT(u.ID, u.Role, SessionDuration)
	if err != nil {
		return nil, apperror.Internal(err, "failed to issue token")
	}
	return &Session{Token: token, ExpiresAt: s.now().Add(SessionDuration), User: u}, nil
}
