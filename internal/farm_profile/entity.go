package farmprofile

import (
	"time"

	"gorm.io/gorm"

	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
)

type LivelihoodCategory struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Code        string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

type FarmProfile struct {
	ID                   uint `gorm:"primaryKey"`
	BeneficiaryID        uint `gorm:"not null;uniqueIndex:idx_farm_profile_beneficiary"`
	LivelihoodCategoryID uint `gorm:"not null;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`

	Beneficiary        *beneficiary.BeneficiaryDetail `gorm:"foreignKey:BeneficiaryID"`
	LivelihoodCategory *LivelihoodCategory            `gorm:"foreignKey:LivelihoodCategoryID"`
	Parcels            []farmparcel.FarmParcel        `gorm:"foreignKey:FarmProfileID"`
	FarmerDetails      *FarmerDetails                 `gorm:"foreignKey:FarmProfileID;constraint:OnDelete:CASCADE"`
	FisherfolkDetails  *FisherfolkDetails             `gorm:"foreignKey:FarmProfileID;constraint:OnDelete:CASCADE"`
	FarmworkerDetails  *FarmworkerDetails             `gorm:"foreignKey:FarmProfileID;constraint:OnDelete:CASCADE"`
	AgriYouthDetails   *AgriYouthDetails              `gorm:"foreignKey:FarmProfileID;constraint:OnDelete:CASCADE"`
}

func (p *FarmProfile) CategoryName() string {
	if p.LivelihoodCategory == nil {
		return "Unknown"
	}
	return p.LivelihoodCategory.Name
}

// LivelihoodDetail returns the populated variant, if any.
func (p *FarmProfile) LivelihoodDetail() any {
	switch {
	case p.FarmerDetails != nil:
		return p.FarmerDetails
	case p.FisherfolkDetails != nil:
		return p.FisherfolkDetails
	case p.FarmworkerDetails != nil:
		return p.FarmworkerDetails
	case p.AgriYouthDetails != nil:
		return p.AgriYouthDetails
	default:
		return nil
	}
}

type FarmerDetails struct {
	ID                    uint   `gorm:"primaryKey" json:"id"`
	FarmProfileID         uint   `gorm:"not null;uniqueIndex" json:"farm_profile_id"`
	IsRice                bool   `json:"is_rice"`
	IsCorn                bool   `json:"is_corn"`
	IsOtherCrops          bool   `json:"is_other_crops"`
	OtherCropsDescription string `gorm:"size:255" json:"other_crops_description"`
	IsLivestock           bool   `json:"is_livestock"`
	LivestockDescription  string `gorm:"size:255" json:"livestock_description"`
	IsPoultry             bool   `json:"is_poultry"`
	PoultryDescription    string `gorm:"size:255" json:"poultry_description"`
}

type FisherfolkDetails struct {
	ID                      uint   `gorm:"primaryKey" json:"id"`
	FarmProfileID           uint   `gorm:"not null;uniqueIndex" json:"farm_profile_id"`
	IsFishCapture           bool   `json:"is_fish_capture"`
	IsAquaculture           bool   `json:"is_aquaculture"`
	IsFishProcessing        bool   `json:"is_fish_processing"`
	OtherFishingDescription string `gorm:"size:255" json:"other_fishing_description"`
}

type FarmworkerDetails struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	FarmProfileID        uint   `gorm:"not null;uniqueIndex" json:"farm_profile_id"`
	IsLandPreparation    bool   `json:"is_land_preparation"`
	IsCultivation        bool   `json:"is_cultivation"`
	IsHarvesting         bool   `json:"is_harvesting"`
	OtherWorkDescription string `gorm:"size:255" json:"other_work_description"`
}

type AgriYouthDetails struct {
	ID                          uint   `gorm:"primaryKey" json:"id"`
	FarmProfileID               uint   `gorm:"not null;uniqueIndex" json:"farm_profile_id"`
	IsAgriYouth                 bool   `json:"is_agri_youth"`
	IsPartOfFarmingHousehold    bool   `json:"is_part_of_farming_household"`
	IsFormalAgriCourse          bool   `json:"is_formal_agri_course"`
	IsNonformalAgriCourse       bool   `json:"is_nonformal_agri_course"`
	IsAgriProgramParticipant    bool   `json:"is_agri_program_participant"`
	OtherInvolvementDescription string `gorm:"size:255" json:"other_involvement_description"`
}

func (d *FarmerDetails) populated() bool {
	return d.IsRice || d.IsCorn || d.IsOtherCrops || d.IsLivestock || d.IsPoultry ||
		d.OtherCropsDescription != "" || d.LivestockDescription != "" || d.PoultryDescription != ""
}

func (d *FisherfolkDetails) populated() bool {
	return d.IsFishCapture || d.IsAquaculture || d.IsFishProcessing || d.OtherFishingDescription != ""
}

func (d *FarmworkerDetails) populated() bool {
	return d.IsLandPreparation || d.IsCultivation || d.IsHarvesting || d.OtherWorkDescription != ""
}

func (d *AgriYouthDetails) populated() bool {
	return d.IsAgriYouth || d.IsPartOfFarmingHousehold || d.IsFormalAgriCourse ||
		d.IsNonformalAgriCourse || d.IsAgriProgramParticipant || d.OtherInvolvementDescription != ""
}
