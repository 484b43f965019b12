package enrollment

import "gorm.io/gorm"

type EnrollmentContainer struct {
	Repo    EnrollmentRepository
	Service EnrollmentService
	Handler *Handler
}

func NewEnrollmentContainer(db *gorm.DB, users UserLookup, beneficiaries BeneficiaryLookup, profiles FarmProfileLookup, opts ...Option) *EnrollmentContainer {
	repo := NewRepository(db)
	service := NewService(repo, users, beneficiaries, profiles, opts...)
	handler := NewHandler(service)

	return &EnrollmentContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
