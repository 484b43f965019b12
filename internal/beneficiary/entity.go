package beneficiary

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type BeneficiaryDetail struct {
	ID                     uint           `gorm:"primaryKey"`
	UserID                 uint           `gorm:"not null;uniqueIndex:idx_beneficiary_user"`
	Fname                  string         `gorm:"size:100"`
	Mname                  string         `gorm:"size:100"`
	Lname                  string         `gorm:"size:100"`
	ExtensionName          string         `gorm:"size:10"`
	Barangay               string         `gorm:"size:100;not null"`
	Municipality           string         `gorm:"size:100;not null;default:Opol"`
	Province               string         `gorm:"size:100;not null;default:Misamis Oriental"`
	Region                 string         `gorm:"size:100;not null;default:Region X (Northern Mindanao)"`
	ContactNumber          string         `gorm:"size:20;not null"`
	EmergencyContactNumber string         `gorm:"size:20"`
	BirthDate              util.LocalDate `gorm:"not null"`
	PlaceOfBirth           string         `gorm:"size:255"`
	Sex                    Sex            `gorm:"size:10;not null"`
	CivilStatus            CivilStatus    `gorm:"size:20;not null"`
	NameOfSpouse           string         `gorm:"size:255"`
	HighestEducation       string         `gorm:"size:50"`
	Religion               string         `gorm:"size:100"`
	IsPWD                  bool           `gorm:"column:is_pwd;not null;default:false"`

	HasGovernmentID      YesNo  `gorm:"size:3;not null;default:no"`
	GovIDType            string `gorm:"size:100"`
	GovIDNumberEncrypted string `gorm:"column:gov_id_number;type:text"`

	IsAssociationMember YesNo  `gorm:"size:3;not null;default:no"`
	AssociationName     string `gorm:"size:255"`

	MothersMaidenName string `gorm:"size:255"`
	IsHouseholdHead   bool   `gorm:"not null;default:false"`
	HouseholdHeadName string `gorm:"size:255"`

	ProfileCompletionStatus CompletionStatus `gorm:"size:20;not null;default:pending"`
	IsProfileVerified       bool             `gorm:"not null;default:false"`
	VerificationNotes       *string          `gorm:"type:text"`
	ProfileVerifiedAt       *time.Time
	ProfileVerifiedBy       *uint
	DataSource              DataSource     `gorm:"size:30;not null;default:self_registration"`
	CompletionTracking      datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (BeneficiaryDetail) TableName() string {
	return "beneficiary_details"
}

func (b *BeneficiaryDetail) FullName() string {
	name := b.Fname
	if b.Mname != "" {
		name += " " + b.Mname
	}
	if b.Lname != "" {
		name += " " + b.Lname
	}
	if b.ExtensionName != "" {
		name += " " + b.ExtensionName
	}
	return name
}
