package farmparcel

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrParcelNotFound = errors.New("farm parcel not found")

type ParcelRepository interface {
	ListByProfile(ctx context.Context, profileID uint) ([]FarmParcel, error)
	GetByID(ctx context.Context, id uint) (*FarmParcel, error)
	Sync(ctx context.Context, profileID uint, parcels []FarmParcel) ([]FarmParcel, error)
	Delete(ctx context.Context, id uint) error
}

type parcelRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ParcelRepository {
	return &parcelRepository{db: db}
}

func (r *parcelRepository) ListByProfile(ctx context.Context, profileID uint) ([]FarmParcel, error) {
	var parcels []FarmParcel
	err := r.db.WithContext(ctx).
		Where("farm_profile_id = ?", profileID).
		Order("id ASC").
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) GetByID(ctx context.Context, id uint) (*FarmParcel, error) {
	var p FarmParcel
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParcelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Sync makes parcels the complete live set for the profile: rows with an id are
// updated, rows without one are created, and live rows not listed are soft-deleted.
func (r *parcelRepository) Sync(ctx context.Context, profileID uint, parcels []FarmParcel) ([]FarmParcel, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uint, 0, len(parcels))
		for i := range parcels {
			parcels[i].FarmProfileID = profileID
			if parcels[i].ID == 0 {
				continue
			}
			keep = append(keep, parcels[i].ID)
			res := tx.Model(&FarmParcel{}).
				Where("id = ? AND farm_profile_id = ?", parcels[i].ID, profileID).
				Select("*").Omit("id", "created_at", "deleted_at").
				Updates(&parcels[i])
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrParcelNotFound
			}
		}

		stale := tx.Where("farm_profile_id = ?", profileID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&FarmParcel{}).Error; err != nil {
			return err
		}

		for i := range parcels {
			if parcels[i].ID != 0 {
				continue
			}
			if err := tx.Create(&parcels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ListByProfile(ctx, profileID)
}

func (r *parcelRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&FarmParcel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParcelNotFound
	}
	return nil
}
