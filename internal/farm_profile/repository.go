package farmprofile

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

var (
	ErrFarmProfileNotFound = errors.New("farm profile not found")
	ErrDuplicateProfile    = errors.New("beneficiary already has a farm profile")
)

type FarmProfileRepository interface {
	Create(ctx context.Context, p *FarmProfile) error
	GetByID(ctx context.Context, id uint) (*FarmProfile, error)
	GetDetailed(ctx context.Context, id uint) (*FarmProfile, error)
	GetByBeneficiaryID(ctx context.Context, beneficiaryID uint) (*FarmProfile, error)
	ChangeCategory(ctx context.Context, id, categoryID uint) error
	SaveLivelihood(ctx context.Context, profileID uint, detail any) error
	ListCategories(ctx context.Context) ([]LivelihoodCategory, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)
	OwnerUserID(ctx context.Context, profileID uint) (uint, bool, error)
}

type farmProfileRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) FarmProfileRepository {
	return &farmProfileRepository{db: db}
}

func (r *farmProfileRepository) Create(ctx context.Context, p *FarmProfile) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	if _, dup := config.UniqueViolation(err); dup {
		return ErrDuplicateProfile
	}
	return err
}

func (r *farmProfileRepository) GetByID(ctx context.Context, id uint) (*FarmProfile, error) {
	var p FarmProfile
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFarmProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *farmProfileRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Beneficiary").
		Preload("LivelihoodCategory").
		Preload("Parcels", func(db *gorm.DB) *gorm.DB { return db.Order("farm_parcels.id ASC") }).
		Preload("FarmerDetails").
		Preload("FisherfolkDetails").
		Preload("FarmworkerDetails").
		Preload("AgriYouthDetails")
}

func (r *farmProfileRepository) GetDetailed(ctx context.Context, id uint) (*FarmProfile, error) {
	var p FarmProfile
	err := r.detailed(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFarmProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *farmProfileRepository) GetByBeneficiaryID(ctx context.Context, beneficiaryID uint) (*FarmProfile, error) {
	var p FarmProfile
	err := r.detailed(ctx).Where("beneficiary_id = ?", beneficiaryID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFarmProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ChangeCategory switches the category and drops the livelihood details that no longer match.
func (r *farmProfileRepository) ChangeCategory(ctx context.Context, id, categoryID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&FarmProfile{}).Where("id = ?", id).Update("livelihood_category_id", categoryID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFarmProfileNotFound
		}
		for cat, model := range variantModels() {
			if cat == categoryID {
				continue
			}
			if err := tx.Where("farm_profile_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveLivelihood replaces every livelihood variant of the profile with detail.
func (r *farmProfileRepository) SaveLivelihood(ctx context.Context, profileID uint, detail any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range variantModels() {
			if err := tx.Where("farm_profile_id = ?", profileID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Create(detail).Error
	})
}

func variantModels() map[uint]any {
	return map[uint]any{
		CategoryFarmer:     &FarmerDetails{},
		CategoryFisherfolk: &FisherfolkDetails{},
		CategoryFarmworker: &FarmworkerDetails{},
		CategoryAgriYouth:  &AgriYouthDetails{},
	}
}

func (r *farmProfileRepository) ListCategories(ctx context.Context) ([]LivelihoodCategory, error) {
	var cats []LivelihoodCategory
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *farmProfileRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&LivelihoodCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *farmProfileRepository) OwnerUserID(ctx context.Context, profileID uint) (uint, bool, error) {
	var owner struct{ UserID uint }
	res := r.db.WithContext(ctx).
		Table("farm_profiles").
		Select("beneficiary_details.user_id").
		Joins("JOIN beneficiary_details ON beneficiary_details.id = farm_profiles.beneficiary_id").
		Where("farm_profiles.id = ? AND farm_profiles.deleted_at IS NULL", profileID).
		Limit(1).
		Scan(&owner)
	if res.Error != nil {
		return 0, false, res.Error
	}
	return owner.UserID, res.RowsAffected > 0, nil
}

// SeedCategories inserts the fixed livelihood categories, leaving existing rows alone.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	cats := make([]LivelihoodCategory, len(DefaultCategories))
	copy(cats, DefaultCategories)
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error
}
