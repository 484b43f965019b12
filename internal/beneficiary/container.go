package beneficiary

import "gorm.io/gorm"

type BeneficiaryContainer struct {
	Repo    BeneficiaryRepository
	Service BeneficiaryService
	Handler *Handler
}

func NewBeneficiaryContainer(db *gorm.DB, users UserLookup, cipher Cipher) *BeneficiaryContainer {
	repo := NewRepository(db)
	service := NewService(repo, users, cipher)
	handler := NewHandler(service)

	return &BeneficiaryContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
