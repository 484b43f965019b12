package farmparcel

import "gorm.io/gorm"

type ParcelContainer struct {
	Repo    ParcelRepository
	Service ParcelService
	Handler *Handler
}

func NewParcelContainer(db *gorm.DB, profiles ProfileLookup) *ParcelContainer {
	repo := NewRepository(db)
	service := NewService(repo, profiles)
	handler := NewHandler(service)

	return &ParcelContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
