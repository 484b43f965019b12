package enrollment

import (
	"time"

	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

type CreateEnrollmentRequest struct {
	UserID                   uint   `json:"user_id" validate:"required"`
	BeneficiaryID            uint   `json:"beneficiary_id" validate:"required"`
	FarmProfileID            uint   `json:"farm_profile_id" validate:"required"`
	EnrollmentType           string `json:"enrollment_type" validate:"required,oneof=new renewal update"`
	EnrollmentYear           *int   `json:"enrollment_year"`
	ApplicationReferenceCode string `json:"application_reference_code" validate:"omitempty,max=30"`
}

type UpdateEnrollmentRequest struct {
	EnrollmentType   *string `json:"enrollment_type" validate:"omitempty,oneof=new renewal update"`
	EnrollmentYear   *int    `json:"enrollment_year"`
	CoordinatorNotes *string `json:"coordinator_notes" validate:"omitempty,max=1000"`
}

type AssignReviewerRequest struct {
	ReviewerID *uint `json:"reviewer_id"`
}

type ApproveRequest struct {
	AssignedRSBSANumber string  `json:"assigned_rsbsa_number" validate:"required,max=50"`
	CoordinatorNotes    *string `json:"coordinator_notes" validate:"omitempty,max=1000"`
}

type RejectRequest struct {
	RejectionReason  string  `json:"rejection_reason" validate:"required,max=1000"`
	CoordinatorNotes *string `json:"coordinator_notes" validate:"omitempty,max=1000"`
}

type VerifyRequest struct {
	RSBSANumber string `json:"rsbsa_number" validate:"required,max=50"`
}

// ListFilter narrows listEnrollments; nil fields are not applied.
type ListFilter struct {
	Status        *ApplicationStatus
	Year          *int
	UserID        *uint
	BeneficiaryID *uint
	Search        string
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BeneficiarySummary struct {
	ID           uint   `json:"id"`
	FullName     string `json:"full_name"`
	Barangay     string `json:"barangay"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	Region       string `json:"region"`
}

type EnrollmentResponse struct {
	ID                       uint              `json:"id"`
	UserID                   uint              `json:"user_id"`
	BeneficiaryID            uint              `json:"beneficiary_id"`
	FarmProfileID            uint              `json:"farm_profile_id"`
	ApplicationReferenceCode string            `json:"application_reference_code"`
	EnrollmentYear           int               `json:"enrollment_year"`
	EnrollmentType           EnrollmentType    `json:"enrollment_type"`
	ApplicationStatus        ApplicationStatus `json:"application_status"`
	StatusDisplay            string            `json:"status_display"`
	StatusColor              string            `json:"status_color"`
	SubmittedAt              *time.Time        `json:"submitted_at"`
	ApprovedAt               *time.Time        `json:"approved_at"`
	RejectedAt               *time.Time        `json:"rejected_at"`
	RejectionReason          *string           `json:"rejection_reason"`
	CoordinatorNotes         *string           `json:"coordinator_notes"`
	ReviewedBy               *uint             `json:"reviewed_by"`
	AssignedRSBSANumber      *string           `json:"assigned_rsbsa_number"`
	RSBSANumberAssignedAt    *time.Time        `json:"rsbsa_number_assigned_at"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`

	User        *UserSummary                     `json:"user,omitempty"`
	Reviewer    *UserSummary                     `json:"reviewer,omitempty"`
	Beneficiary *BeneficiarySummary              `json:"beneficiary,omitempty"`
	FarmProfile *farmprofile.FarmProfileResponse `json:"farm_profile,omitempty"`
}

// StatusResponse is the lightweight view polled by the applicant's dashboard.
type StatusResponse struct {
	ID                       uint                `json:"id"`
	ApplicationReferenceCode string              `json:"application_reference_code"`
	ApplicationStatus        ApplicationStatus   `json:"application_status"`
	StatusDisplay            string              `json:"status_display"`
	StatusColor              string              `json:"status_color"`
	EnrollmentYear           int                 `json:"enrollment_year"`
	EnrollmentType           EnrollmentType      `json:"enrollment_type"`
	SubmittedAt              *time.Time          `json:"submitted_at"`
	ApprovedAt               *time.Time          `json:"approved_at"`
	RejectedAt               *time.Time          `json:"rejected_at"`
	AssignedRSBSANumber      *string             `json:"assigned_rsbsa_number"`
	RejectionReason          *string             `json:"rejection_reason"`
	CoordinatorNotes         *string             `json:"coordinator_notes"`
	ReviewedBy               *uint               `json:"reviewed_by"`
	Reviewer                 *UserSummary        `json:"reviewer"`
	Beneficiary              *BeneficiarySummary `json:"beneficiary"`
	FarmProfile              *FarmProfileSummary `json:"farm_profile"`
	CanSubmit                bool                `json:"can_submit"`
	CanApprove               bool                `json:"can_approve"`
	CanReject                bool                `json:"can_reject"`
	IsCompleted              bool                `json:"is_completed"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
}

type FarmProfileSummary struct {
	ID                     uint   `json:"id"`
	LivelihoodCategoryID   uint   `json:"livelihood_category_id"`
	LivelihoodCategoryName string `json:"livelihood_category_name"`
}

type Statistics struct {
	TotalEnrollments int64                       `json:"total_enrollments"`
	ByStatus         map[ApplicationStatus]int64 `json:"by_status"`
	ByYear           map[int]int64               `json:"by_year"`
	PendingReview    int64                       `json:"pending_review"`
	ApprovedThisYear int64                       `json:"approved_this_year"`
	RejectedThisYear int64                       `json:"rejected_this_year"`
}

type VerificationResponse struct {
	Verified                 bool       `json:"verified"`
	RSBSANumber              string     `json:"rsbsa_number"`
	ApplicationReferenceCode string     `json:"application_reference_code,omitempty"`
	EnrollmentYear           int        `json:"enrollment_year,omitempty"`
	ApprovedAt               *time.Time `json:"approved_at,omitempty"`
	BeneficiaryName          string     `json:"beneficiary_name,omitempty"`
}

func userSummary(u *user.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToResponse(e *Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:                       e.ID,
		UserID:                   e.UserID,
		BeneficiaryID:            e.BeneficiaryID,
		FarmProfileID:            e.FarmProfileID,
		ApplicationReferenceCode: e.ApplicationReferenceCode,
		EnrollmentYear:           e.EnrollmentYear,
		EnrollmentType:           e.EnrollmentType,
		ApplicationStatus:        e.ApplicationStatus,
		StatusDisplay:            e.ApplicationStatus.Display(),
		StatusColor:              e.ApplicationStatus.Color(),
		SubmittedAt:              e.SubmittedAt,
		ApprovedAt:               e.ApprovedAt,
		RejectedAt:               e.RejectedAt,
		RejectionReason:          e.RejectionReason,
		CoordinatorNotes:         e.CoordinatorNotes,
		ReviewedBy:               e.ReviewedBy,
		AssignedRSBSANumber:      e.AssignedRSBSANumber,
		RSBSANumberAssignedAt:    e.RSBSANumberAssignedAt,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
		User:                     userSummary(e.User),
		Reviewer:                 userSummary(e.Reviewer),
		Beneficiary:              beneficiarySummary(e),
	}
	if e.FarmProfile != nil {
		resp.FarmProfile = farmprofile.ToResponse(e.FarmProfile)
	}
	return resp
}

func ToResponses(list []Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(list))
	for i := range list {
		out = append(out, *ToResponse(&list[i]))
	}
	return out
}

func beneficiarySummary(e *Enrollment) *BeneficiarySummary {
	b := e.Beneficiary
	if b == nil {
		return nil
	}
	return &BeneficiarySummary{
		ID:           b.ID,
		FullName:     b.FullName(),
		Barangay:     b.Barangay,
		Municipality: b.Municipality,
		Province:     b.Province,
		Region:       b.Region,
	}
}

func ToStatusResponse(e *Enrollment) *StatusResponse {
	resp := &StatusResponse{
		ID:                       e.ID,
		ApplicationReferenceCode: e.ApplicationReferenceCode,
		ApplicationStatus:        e.ApplicationStatus,
		StatusDisplay:            e.ApplicationStatus.Display(),
		StatusColor:              e.ApplicationStatus.Color(),
		EnrollmentYear:           e.EnrollmentYear,
		EnrollmentType:           e.EnrollmentType,
		SubmittedAt:              e.SubmittedAt,
		ApprovedAt:               e.ApprovedAt,
		RejectedAt:               e.RejectedAt,
		AssignedRSBSANumber:      e.AssignedRSBSANumber,
		RejectionReason:          e.RejectionReason,
		CoordinatorNotes:         e.CoordinatorNotes,
		ReviewedBy:               e.ReviewedBy,
		Reviewer:                 userSummary(e.Reviewer),
		Beneficiary:              beneficiarySummary(e),
		CanSubmit:                e.ApplicationStatus.Allows(OpSubmit),
		CanApprove:               e.ApplicationStatus.Allows(OpApprove),
		CanReject:                e.ApplicationStatus.Allows(OpReject),
		IsCompleted:              e.IsCompleted(),
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
	if p := e.FarmProfile; p != nil {
		resp.FarmProfile = &FarmProfileSummary{
			ID:                     p.ID,
			LivelihoodCategoryID:   p.LivelihoodCategoryID,
			LivelihoodCategoryName: p.CategoryName(),
		}
	}
	return resp
}
