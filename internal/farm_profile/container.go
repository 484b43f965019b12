package farmprofile

import (
	"gorm.io/gorm"

	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
)

type FarmProfileContainer struct {
	Repo            FarmProfileRepository
	Service         FarmProfileService
	Handler         *Handler
	ParcelContainer *farmparcel.ParcelContainer
}

func NewFarmProfileContainer(db *gorm.DB, beneficiaries BeneficiaryLookup) *FarmProfileContainer {
	repo := NewRepository(db)
	service := NewService(repo, beneficiaries)
	handler := NewHandler(service)

	return &FarmProfileContainer{
		Repo:            repo,
		Service:         service,
		Handler:         handler,
		ParcelContainer: farmparcel.NewParcelContainer(db, repo),
	}
}
