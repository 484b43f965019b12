package farmprofile

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

const invalidData = "The given data was invalid."

type BeneficiaryLookup interface {
	GetByID(ctx context.Context, id uint) (*beneficiary.BeneficiaryDetail, error)
}

type FarmProfileService interface {
	Create(ctx context.Context, actor *auth.Claims, req CreateFarmProfileRequest) (*FarmProfileResponse, error)
	Get(ctx context.Context, actor *auth.Claims, id uint) (*FarmProfileResponse, error)
	GetByBeneficiary(ctx context.Context, actor *auth.Claims, beneficiaryID uint) (*FarmProfileResponse, error)
	Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateFarmProfileRequest) (*FarmProfileResponse, error)
	SaveLivelihood(ctx context.Context, actor *auth.Claims, id uint, req SaveLivelihoodRequest) (*FarmProfileResponse, error)
	ListCategories(ctx context.Context) ([]LivelihoodCategory, error)
}

type farmProfileService struct {
	repo          FarmProfileRepository
	beneficiaries BeneficiaryLookup
}

func NewService(repo FarmProfileRepository, beneficiaries BeneficiaryLookup) FarmProfileService {
	return &farmProfileService{repo: repo, beneficiaries: beneficiaries}
}

func (s *farmProfileService) Create(ctx context.Context, actor *auth.Claims, req CreateFarmProfileRequest) (*FarmProfileResponse, error) {
	log := config.WithContext(ctx)

	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	b, err := s.beneficiaries.GetByID(ctx, req.BeneficiaryID)
	if errors.Is(err, beneficiary.ErrBeneficiaryNotFound) {
		return nil, apperror.Validation(invalidData, map[string]string{"beneficiary_id": "The selected beneficiary id is invalid."})
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load beneficiary")
	}
	if !actor.IsStaff() && b.UserID != actor.UserID {
		return nil, apperror.Forbidden("You may only create a farm profile for your own beneficiary record")
	}

	if err := s.checkCategory(ctx, req.LivelihoodCategoryID); err != nil {
		return nil, err
	}

	p := &FarmProfile{BeneficiaryID: req.BeneficiaryID, LivelihoodCategoryID: req.LivelihoodCategoryID}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateProfile) {
			return nil, apperror.Conflict("Farm profile already exists for this beneficiary")
		}
		log.WithError(err).WithField("beneficiary_id", req.BeneficiaryID).Error("Failed to create farm profile")
		return nil, apperror.Internal(err, "failed to create farm profile")
	}

	log.WithFields(logrus.Fields{"farm_profile_id": p.ID, "beneficiary_id": p.BeneficiaryID}).Info("Farm profile created")
	return s.detailed(ctx, p.ID)
}

func (s *farmProfileService) Get(ctx context.Context, actor *auth.Claims, id uint) (*FarmProfileResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(p), nil
}

func (s *farmProfileService) GetByBeneficiary(ctx context.Context, actor *auth.Claims, beneficiaryID uint) (*FarmProfileResponse, error) {
	p, err := s.repo.GetByBeneficiaryID(ctx, beneficiaryID)
	if errors.Is(err, ErrFarmProfileNotFound) {
		return nil, apperror.NotFound("Farm profile not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load farm profile")
	}
	if err := authorize(actor, p); err != nil {
		return nil, err
	}
	return ToResponse(p), nil
}

func (s *farmProfileService) Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateFarmProfileRequest) (*FarmProfileResponse, error) {
	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.LivelihoodCategoryID == req.LivelihoodCategoryID {
		return ToResponse(p), nil
	}
	if err := s.checkCategory(ctx, req.LivelihoodCategoryID); err != nil {
		return nil, err
	}

	if err := s.repo.ChangeCategory(ctx, id, req.LivelihoodCategoryID); err != nil {
		if errors.Is(err, ErrFarmProfileNotFound) {
			return nil, apperror.NotFound("Farm profile not found")
		}
		return nil, apperror.Internal(err, "failed to update farm profile")
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"farm_profile_id": id,
		"from_category":   p.LivelihoodCategoryID,
		"to_category":     req.LivelihoodCategoryID,
	}).Info("Farm profile category changed")
	return s.detailed(ctx, id)
}

func (s *farmProfileService) SaveLivelihood(ctx context.Context, actor *auth.Claims, id uint, req SaveLivelihoodRequest) (*FarmProfileResponse, error) {
	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	detail, fields := buildDetail(p.ID, p.LivelihoodCategoryID, req)
	if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	if err := s.repo.SaveLivelihood(ctx, p.ID, detail); err != nil {
		config.WithContext(ctx).WithError(err).WithField("farm_profile_id", id).Error("Failed to save livelihood details")
		return nil, apperror.Internal(err, "failed to save livelihood details")
	}
	return s.detailed(ctx, id)
}

func (s *farmProfileService) ListCategories(ctx context.Context) ([]LivelihoodCategory, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list livelihood categories")
	}
	return cats, nil
}

func (s *farmProfileService) load(ctx context.Context, actor *auth.Claims, id uint) (*FarmProfile, error) {
	p, err := s.repo.GetDetailed(ctx, id)
	if errors.Is(err, ErrFarmProfileNotFound) {
		return nil, apperror.NotFound("Farm profile not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load farm profile")
	}
	if err := authorize(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *farmProfileService) detailed(ctx context.Context, id uint) (*FarmProfileResponse, error) {
	p, err := s.repo.GetDetailed(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to reload farm profile")
	}
	return ToResponse(p), nil
}

func (s *farmProfileService) checkCategory(ctx context.Context, categoryID uint) error {
	ok, err := s.repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return apperror.Internal(err, "failed to check livelihood category")
	}
	if !ok {
		return apperror.Validation(invalidData, map[string]string{
			"livelihood_category_id": "The selected livelihood category id is invalid.",
		})
	}
	return nil
}

func authorize(actor *auth.Claims, p *FarmProfile) error {
	if actor.IsStaff() {
		return nil
	}
	if p.Beneficiary == nil || p.Beneficiary.UserID != actor.UserID {
		return apperror.Forbidden("You do not have access to this farm profile")
	}
	return nil
}

// buildDetail picks the variant for categoryID; other variants in req are rejected.
func buildDetail(profileID, categoryID uint, req SaveLivelihoodRequest) (any, map[string]string) {
	provided := map[string]bool{
		"farmer":     req.Farmer != nil,
		"fisherfolk": req.Fisherfolk != nil,
		"farmworker": req.Farmworker != nil,
		"agri_youth": req.AgriYouth != nil,
	}
	expected := variantKey(categoryID)

	fields := map[string]string{}
	for key, ok := range provided {
		if ok && key != expected {
			fields[key] = "The " + key + " details do not match the farm profile's livelihood category."
		}
	}
	if !provided[expected] {
		fields[expected] = "The " + expected + " details are required."
	}
	if len(fields) > 0 {
		return nil, fields
	}

	var detail interface{ populated() bool }
	switch categoryID {
	case CategoryFarmer:
		in := req.Farmer
		detail = &FarmerDetails{
			FarmProfileID: profileID, IsRice: in.IsRice, IsCorn: in.IsCorn,
			IsOtherCrops: in.IsOtherCrops, OtherCropsDescription: in.OtherCropsDescription,
			IsLivestock: in.IsLivestock, LivestockDescription: in.LivestockDescription,
			IsPoultry: in.IsPoultry, PoultryDescription: in.PoultryDescription,
		}
	case CategoryFisherfolk:
		in := req.Fisherfolk
		detail = &FisherfolkDetails{
			FarmProfileID: profileID, IsFishCapture: in.IsFishCapture, IsAquaculture: in.IsAquaculture,
			IsFishProcessing: in.IsFishProcessing, OtherFishingDescription: in.OtherFishingDescription,
		}
	case CategoryFarmworker:
		in := req.Farmworker
		detail = &FarmworkerDetails{
			FarmProfileID: profileID, IsLandPreparation: in.IsLandPreparation, IsCultivation: in.IsCultivation,
			IsHarvesting: in.IsHarvesting, OtherWorkDescription: in.OtherWorkDescription,
		}
	case CategoryAgriYouth:
		in := req.AgriYouth
		detail = &AgriYouthDetails{
			FarmProfileID: profileID, IsAgriYouth: in.IsAgriYouth, IsPartOfFarmingHousehold: in.IsPartOfFarmingHousehold,
			IsFormalAgriCourse: in.IsFormalAgriCourse, IsNonformalAgriCourse: in.IsNonformalAgriCourse,
			IsAgriProgramParticipant: in.IsAgriProgramParticipant, OtherInvolvementDescription: in.OtherInvolvementDescription,
		}
	default:
		return nil, map[string]string{"livelihood_category_id": "The farm profile's livelihood category has no detail form."}
	}

	if !detail.populated() {
		return nil, map[string]string{expected: "Select at least one activity for the " + expected + " details."}
	}
	return detail, nil
}

func variantKey(categoryID uint) string {
	switch categoryID {
	case CategoryFarmer:
		return "farmer"
	case CategoryFisherfolk:
		return "fisherfolk"
	case CategoryFarmworker:
		return "farmworker"
	default:
		return "agri_youth"
	}
}
