package farmparcel

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

// ProfileLookup resolves the account that owns a farm profile.
type ProfileLookup interface {
	OwnerUserID(ctx context.Context, profileID uint) (userID uint, found bool, err error)
}

type ParcelService interface {
	List(ctx context.Context, actor *auth.Claims, profileID uint) ([]ParcelResponse, error)
	Sync(ctx context.Context, actor *auth.Claims, profileID uint, req SyncParcelsRequest) ([]ParcelResponse, error)
	Delete(ctx context.Context, actor *auth.Claims, id uint) error
}

type parcelService struct {
	repo     ParcelRepository
	profiles ProfileLookup
}

func NewService(repo ParcelRepository, profiles ProfileLookup) ParcelService {
	return &parcelService{repo: repo, profiles: profiles}
}

func (s *parcelService) List(ctx context.Context, actor *auth.Claims, profileID uint) ([]ParcelResponse, error) {
	if err := s.authorize(ctx, actor, profileID); err != nil {
		return nil, err
	}
	parcels, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list parcels")
	}
	return ToResponses(parcels), nil
}

func (s *parcelService) Sync(ctx context.Context, actor *auth.Claims, profileID uint, req SyncParcelsRequest) ([]ParcelResponse, error) {
	log := config.WithContext(ctx).WithField("farm_profile_id", profileID)

	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation("The given data was invalid.", fields)
	}
	if err := s.authorize(ctx, actor, profileID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load parcels")
	}
	owned := make(map[uint]bool, len(existing))
	for _, p := range existing {
		owned[p.ID] = true
	}

	parcels := make([]FarmParcel, 0, len(req.Parcels))
	fields := map[string]string{}
	for i, in := range req.Parcels {
		if in.ID != nil && !owned[*in.ID] {
			fields["parcels."+strconv.Itoa(i)+".id"] = "The selected parcel is invalid."
			continue
		}
		parcels = append(parcels, fromInput(in))
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("The given data was invalid.", fields)
	}

	saved, err := s.repo.Sync(ctx, profileID, parcels)
	if errors.Is(err, ErrParcelNotFound) {
		return nil, apperror.Conflict("Parcels changed while saving, reload and try again")
	}
	if err != nil {
		log.WithError(err).Error("Failed to sync parcels")
		return nil, apperror.Internal(err, "failed to save parcels")
	}

	log.WithFields(logrus.Fields{"count": len(saved), "total_area": TotalArea(saved)}).Info("Parcels synced")
	return ToResponses(saved), nil
}

func (s *parcelService) Delete(ctx context.Context, actor *auth.Claims, id uint) error {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrParcelNotFound) {
		return apperror.NotFound("Farm parcel not found")
	}
	if err != nil {
		return apperror.Internal(err, "failed to load parcel")
	}
	if err := s.authorize(ctx, actor, p.FarmProfileID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrParcelNotFound) {
			return apperror.NotFound("Farm parcel not found")
		}
		return apperror.Internal(err, "failed to delete parcel")
	}
	return nil
}

func (s *parcelService) authorize(ctx context.Context, actor *auth.Claims, profileID uint) error {
	owner, found, err := s.profiles.OwnerUserID(ctx, profileID)
	if err != nil {
		return apperror.Internal(err, "failed to load farm profile")
	}
	if !found {
		return apperror.NotFound("Farm profile not found")
	}
	if !actor.IsStaff() && owner != actor.UserID {
		return apperror.Forbidden("You do not have access to this farm profile")
	}
	return nil
}

func fromInput(in ParcelInput) FarmParcel {
	p := FarmParcel{
		ParcelNumber:                in.ParcelNumber,
		Barangay:                    in.Barangay,
		FarmArea:                    in.FarmArea,
		TenureType:                  TenureType(in.TenureType),
		LandownerName:               in.LandownerName,
		OwnershipDocumentNumber:     in.OwnershipDocumentNumber,
		IsAncestralDomain:           in.IsAncestralDomain,
		IsAgrarianReformBeneficiary: in.IsAgrarianReformBeneficiary,
		FarmType:                    FarmType(in.FarmType),
		IsOrganicPractitioner:       in.IsOrganicPractitioner,
		Remarks:                     in.Remarks,
	}
	if in.ID != nil {
		p.ID = *in.ID
	}
	return p
}
