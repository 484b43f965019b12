package beneficiary

import (
	"time"

	"gorm.io/datatypes"
)

type CreateBeneficiaryRequest struct {
	UserID                 uint   `json:"user_id" validate:"required"`
	Fname                  string `json:"fname" validate:"max=100"`
	Mname                  string `json:"mname" validate:"max=100"`
	Lname                  string `json:"lname" validate:"max=100"`
	ExtensionName          string `json:"extension_name" validate:"omitempty,oneof=Jr. Sr. II III IV V"`
	Barangay               string `json:"barangay" validate:"required,max=100"`
	Municipality           string `json:"municipality" validate:"max=100"`
	Province               string `json:"province" validate:"max=100"`
	Region                 string `json:"region" validate:"max=100"`
	ContactNumber          string `json:"contact_number" validate:"required,max=20"`
	EmergencyContactNumber string `json:"emergency_contact_number" validate:"max=20"`
	BirthDate              string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	PlaceOfBirth           string `json:"place_of_birth" validate:"max=255"`
	Sex                    string `json:"sex" validate:"required,oneof=male female"`
	CivilStatus            string `json:"civil_status" validate:"required,oneof=single married widowed separated divorced"`
	NameOfSpouse           string `json:"name_of_spouse" validate:"max=255"`
	HighestEducation       string `json:"highest_education" validate:"omitempty,max=50"`
	Religion               string `json:"religion" validate:"max=100"`
	IsPWD                  bool   `json:"is_pwd"`
	HasGovernmentID        string `json:"has_government_id" validate:"omitempty,oneof=yes no"`
	GovIDType              string `json:"gov_id_type" validate:"max=100"`
	GovIDNumber            string `json:"gov_id_number" validate:"max=100"`
	IsAssociationMember    string `json:"is_association_member" validate:"omitempty,oneof=yes no"`
	AssociationName        string `json:"association_name" validate:"max=255"`
	MothersMaidenName      string `json:"mothers_maiden_name" validate:"max=255"`
	IsHouseholdHead        bool   `json:"is_household_head"`
	HouseholdHeadName      string `json:"household_head_name" validate:"max=255"`
	DataSource             string `json:"data_source" validate:"omitempty,oneof=self_registration coordinator_input"`
}

// UpdateBeneficiaryRequest applies only the fields that are present.
type UpdateBeneficiaryRequest struct {
	Fname                  *string `json:"fname" validate:"omitempty,max=100"`
	Mname                  *string `json:"mname" validate:"omitempty,max=100"`
	Lname                  *string `json:"lname" validate:"omitempty,max=100"`
	ExtensionName          *string `json:"extension_name" validate:"omitempty,oneof=Jr. Sr. II III IV V"`
	Barangay               *string `json:"barangay" validate:"omitempty,min=1,max=100"`
	Municipality           *string `json:"municipality" validate:"omitempty,max=100"`
	Province               *string `json:"province" validate:"omitempty,max=100"`
	Region                 *string `json:"region" validate:"omitempty,max=100"`
	ContactNumber          *string `json:"contact_number" validate:"omitempty,min=1,max=20"`
	EmergencyContactNumber *string `json:"emergency_contact_number" validate:"omitempty,max=20"`
	BirthDate              *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth           *string `json:"place_of_birth" validate:"omitempty,max=255"`
	Sex                    *string `json:"sex" validate:"omitempty,oneof=male female"`
	CivilStatus            *string `json:"civil_status" validate:"omitempty,oneof=single married widowed separated divorced"`
	NameOfSpouse           *string `json:"name_of_spouse" validate:"omitempty,max=255"`
	HighestEducation       *string `json:"highest_education" validate:"omitempty,max=50"`
	Religion               *string `json:"religion" validate:"omitempty,max=100"`
	IsPWD                  *bool   `json:"is_pwd"`
	HasGovernmentID        *string `json:"has_government_id" validate:"omitempty,oneof=yes no"`
	GovIDType              *string `json:"gov_id_type" validate:"omitempty,max=100"`
	GovIDNumber            *string `json:"gov_id_number" validate:"omitempty,max=100"`
	IsAssociationMember    *string `json:"is_association_member" validate:"omitempty,oneof=yes no"`
	AssociationName        *string `json:"association_name" validate:"omitempty,max=255"`
	MothersMaidenName      *string `json:"mothers_maiden_name" validate:"omitempty,max=255"`
	IsHouseholdHead        *bool   `json:"is_household_head"`
	HouseholdHeadName      *string `json:"household_head_name" validate:"omitempty,max=255"`
}

type VerifyRequest struct {
	Notes string `json:"verification_notes" validate:"max=1000"`
}

type BeneficiaryResponse struct {
	ID                      uint             `json:"id"`
	UserID                  uint             `json:"user_id"`
	Fname                   string           `json:"fname"`
	Mname                   string           `json:"mname"`
	Lname                   string           `json:"lname"`
	ExtensionName           string           `json:"extension_name"`
	FullName                string           `json:"full_name"`
	Barangay                string           `json:"barangay"`
	Municipality            string           `json:"municipality"`
	Province                string           `json:"province"`
	Region                  string           `json:"region"`
	ContactNumber           string           `json:"contact_number"`
	EmergencyContactNumber  string           `json:"emergency_contact_number"`
	BirthDate               string           `json:"birth_date"`
	Age                     int              `json:"age"`
	PlaceOfBirth            string           `json:"place_of_birth"`
	Sex                     Sex              `json:"sex"`
	CivilStatus             CivilStatus      `json:"civil_status"`
	NameOfSpouse            string           `json:"name_of_spouse"`
	HighestEducation        string           `json:"highest_education"`
	Religion                string           `json:"religion"`
	IsPWD                   bool             `json:"is_pwd"`
	HasGovernmentID         YesNo            `json:"has_government_id"`
	GovIDType               string           `json:"gov_id_type"`
	GovIDNumber             string           `json:"gov_id_number"`
	IsAssociationMember     YesNo            `json:"is_association_member"`
	AssociationName         string           `json:"association_name"`
	MothersMaidenName       string           `json:"mothers_maiden_name"`
	IsHouseholdHead         bool             `json:"is_household_head"`
	HouseholdHeadName       string           `json:"household_head_name"`
	ProfileCompletionStatus CompletionStatus `json:"profile_completion_status"`
	IsProfileVerified       bool             `json:"is_profile_verified"`
	VerificationNotes       *string          `json:"verification_notes"`
	ProfileVerifiedAt       *time.Time       `json:"profile_verified_at"`
	ProfileVerifiedBy       *uint            `json:"profile_verified_by"`
	DataSource              DataSource       `json:"data_source"`
	CompletionTracking      datatypes.JSON   `json:"completion_tracking"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// CompletionTracking is stored as JSON on the record.
type CompletionTracking struct {
	Percentage int      `json:"percentage"`
	Completed  []string `json:"completed_fields"`
	Missing    []string `json:"missing_fields"`
}
