package beneficiary

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

var (
	ErrBeneficiaryNotFound  = errors.New("beneficiary not found")
	ErrDuplicateBeneficiary = errors.New("beneficiary already exists for user")
)

type BeneficiaryRepository interface {
	Create(ctx context.Context, b *BeneficiaryDetail) error
	Update(ctx context.Context, b *BeneficiaryDetail) error
	GetByID(ctx context.Context, id uint) (*BeneficiaryDetail, error)
	GetByUserID(ctx context.Context, userID uint) (*BeneficiaryDetail, error)
}

type beneficiaryRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) BeneficiaryRepository {
	return &beneficiaryRepository{db: db}
}

func (r *beneficiaryRepository) Create(ctx context.Context, b *BeneficiaryDetail) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if _, dup := config.UniqueViolation(err); dup {
		return ErrDuplicateBeneficiary
	}
	return err
}

func (r *beneficiaryRepository) Update(ctx context.Context, b *BeneficiaryDetail) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *beneficiaryRepository) GetByID(ctx context.Context, id uint) (*BeneficiaryDetail, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *beneficiaryRepository) GetByUserID(ctx context.Context, userID uint) (*BeneficiaryDetail, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *beneficiaryRepository) first(ctx context.Context, query string, args ...any) (*BeneficiaryDetail, error) {
	var b BeneficiaryDetail
	err := r.db.WithContext(ctx).Where(query, args...).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBeneficiaryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
