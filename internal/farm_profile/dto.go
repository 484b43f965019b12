package farmprofile

import (
	"time"

	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
)

type CreateFarmProfileRequest struct {
	BeneficiaryID        uint `json:"beneficiary_id" validate:"required"`
	LivelihoodCategoryID uint `json:"livelihood_category_id" validate:"required"`
}

type UpdateFarmProfileRequest struct {
	LivelihoodCategoryID uint `json:"livelihood_category_id" validate:"required"`
}

type FarmerInput struct {
	IsRice                bool   `json:"is_rice"`
	IsCorn                bool   `json:"is_corn"`
	IsOtherCrops          bool   `json:"is_other_crops"`
	OtherCropsDescription string `json:"other_crops_description" validate:"max=255"`
	IsLivestock           bool   `json:"is_livestock"`
	LivestockDescription  string `json:"livestock_description" validate:"max=255"`
	IsPoultry             bool   `json:"is_poultry"`
	PoultryDescription    string `json:"poultry_description" validate:"max=255"`
}

type FisherfolkInput struct {
	IsFishCapture           bool   `json:"is_fish_capture"`
	IsAquaculture           bool   `json:"is_aquaculture"`
	IsFishProcessing        bool   `json:"is_fish_processing"`
	OtherFishingDescription string `json:"other_fishing_description" validate:"max=255"`
}

type FarmworkerInput struct {
	IsLandPreparation    bool   `json:"is_land_preparation"`
	IsCultivation        bool   `json:"is_cultivation"`
	IsHarvesting         bool   `json:"is_harvesting"`
	OtherWorkDescription string `json:"other_work_description" validate:"max=255"`
}

type AgriYouthInput struct {
	IsAgriYouth                 bool   `json:"is_agri_youth"`
	IsPartOfFarmingHousehold    bool   `json:"is_part_of_farming_household"`
	IsFormalAgriCourse          bool   `json:"is_formal_agri_course"`
	IsNonformalAgriCourse       bool   `json:"is_nonformal_agri_course"`
	IsAgriProgramParticipant    bool   `json:"is_agri_program_participant"`
	OtherInvolvementDescription string `json:"other_involvement_description" validate:"max=255"`
}

// SaveLivelihoodRequest carries exactly one variant, the one matching the profile's category.
type SaveLivelihoodRequest struct {
	Farmer     *FarmerInput     `json:"farmer"`
	Fisherfolk *FisherfolkInput `json:"fisherfolk"`
	Farmworker *FarmworkerInput `json:"farmworker"`
	AgriYouth  *AgriYouthInput  `json:"agri_youth"`
}

type FarmProfileResponse struct {
	ID                     uint                        `json:"id"`
	BeneficiaryID          uint                        `json:"beneficiary_id"`
	LivelihoodCategoryID   uint                        `json:"livelihood_category_id"`
	LivelihoodCategoryName string                      `json:"livelihood_category_name"`
	LivelihoodDetail       any                         `json:"livelihood_detail"`
	Parcels                []farmparcel.ParcelResponse `json:"farm_parcels"`
	TotalFarmArea          float64                     `json:"total_farm_area"`
	ParcelCount            int                         `json:"parcel_count"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
}

func ToResponse(p *FarmProfile) *FarmProfileResponse {
	return &FarmProfileResponse{
		ID:                     p.ID,
		BeneficiaryID:          p.BeneficiaryID,
		LivelihoodCategoryID:   p.LivelihoodCategoryID,
		LivelihoodCategoryName: p.CategoryName(),
		LivelihoodDetail:       p.LivelihoodDetail(),
		Parcels:                farmparcel.ToResponses(p.Parcels),
		TotalFarmArea:          farmparcel.TotalArea(p.Parcels),
		ParcelCount:            len(p.Parcels),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
