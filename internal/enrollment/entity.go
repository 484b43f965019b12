package enrollment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

// Enrollment is one RSBSA application for a calendar year.
// A user holds at most one live enrollment per year; soft-deleted rows do not count.
type Enrollment struct {
	ID                       uint              `gorm:"primaryKey"`
	UserID                   uint              `gorm:"not null;index;uniqueIndex:idx_enrollment_user_year,where:deleted_at IS NULL"`
	BeneficiaryID            uint              `gorm:"not null;index"`
	FarmProfileID            uint              `gorm:"not null;index"`
	ApplicationReferenceCode string            `gorm:"size:30;not null;uniqueIndex:idx_enrollment_reference_code"`
	EnrollmentYear           int               `gorm:"not null;index;uniqueIndex:idx_enrollment_user_year,where:deleted_at IS NULL"`
	EnrollmentType           EnrollmentType    `gorm:"size:10;not null;default:new"`
	ApplicationStatus        ApplicationStatus `gorm:"size:12;not null;default:draft;index"`
	SubmittedAt              *time.Time
	ApprovedAt               *time.Time
	RejectedAt               *time.Time
	RejectionReason          *string    `gorm:"type:text"`
	CoordinatorNotes         *string    `gorm:"type:text"`
	ReviewedBy               *uint      `gorm:"index"`
	AssignedRSBSANumber      *string    `gorm:"column:assigned_rsbsa_number;size:50;uniqueIndex:idx_enrollment_rsbsa_number"`
	RSBSANumberAssignedAt    *time.Time `gorm:"column:rsbsa_number_assigned_at"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
	DeletedAt                gorm.DeletedAt `gorm:"index"`

	User        *user.User                     `gorm:"foreignKey:UserID"`
	Reviewer    *user.User                     `gorm:"foreignKey:ReviewedBy"`
	Beneficiary *beneficiary.BeneficiaryDetail `gorm:"foreignKey:BeneficiaryID"`
	FarmProfile *farmprofile.FarmProfile       `gorm:"foreignKey:FarmProfileID"`
}

func (Enrollment) TableName() string {
	return "rsbsa_enrollments"
}

// StatusHistory is the append-only audit trail of enrollment lifecycle events.
type StatusHistory struct {
	ID           uint               `gorm:"primaryKey" json:"-"`
	EventID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"event_id"`
	EnrollmentID uint               `gorm:"not null;index" json:"enrollment_id"`
	Action       string             `gorm:"size:30;not null" json:"action"`
	FromStatus   *ApplicationStatus `gorm:"size:12" json:"from_status"`
	ToStatus     ApplicationStatus  `gorm:"size:12;not null" json:"to_status"`
	ActorID      *uint              `gorm:"index" json:"actor_id"`
	Metadata     datatypes.JSON     `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "rsbsa_enrollment_status_histories"
}

// EnrollmentSequence holds the last reference-code number handed out per year.
type EnrollmentSequence struct {
	Year      int   `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64 `gorm:"not null"`
}

func (EnrollmentSequence) TableName() string {
	return "enrollment_sequences"
}

func ReferenceCode(year int, seq int64) string {
	return fmt.Sprintf("RSBSA-%d-%06d", year, seq)
}
