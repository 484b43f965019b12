package user

import (
	"gorm.io/gorm"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, sealer Sealer) *UserContainer {
	oauthConfig := NewGoogleOAuthConfig(
		config.GetEnv("GOOGLE_CLIENT_ID"),
		config.GetEnv("GOOGLE_CLIENT_SECRET"),
		config.GetEnv("GOOGLE_REDIRECT_URL"),
	)
	roles := RoleAssignments{
		Admins:       config.GetEnvList("ADMIN_EMAILS"),
		Coordinators: config.GetEnvList("COORDINATOR_EMAILS"),
	}

	repo := NewRepository(db)
	service := NewService(repo, NewGoogleProvider(oauthConfig), sealer, roles)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
