package enrollment

import (
	"strings"
	"time"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
)

// Each lifecycle operation is a CanX guard plus an ApplyX mutation.
// Callers must check the guard first; Apply never validates and a failed guard leaves e untouched.

func (e *Enrollment) CanSubmit() error {
	if !e.ApplicationStatus.Allows(OpSubmit) {
		return apperror.InvalidTransition("Enrollment cannot be submitted in current status")
	}
	return nil
}

func (e *Enrollment) ApplySubmit(now time.Time) {
	e.ApplicationStatus = OpSubmit.Target()
	e.SubmittedAt = &now
}

func (e *Enrollment) CanAssignReviewer() error {
	if !e.ApplicationStatus.Allows(OpAssignReviewer) {
		return apperror.InvalidTransition("Reviewer can only be assigned to submitted enrollments")
	}
	return nil
}

func (e *Enrollment) ApplyAssignReviewer(reviewerID uint) {
	e.ApplicationStatus = OpAssignReviewer.Target()
	e.ReviewedBy = &reviewerID
}

func (e *Enrollment) CanApprove() error {
	if !e.ApplicationStatus.Allows(OpApprove) {
		return apperror.InvalidTransition("Enrollment cannot be approved in current status")
	}
	return nil
}

// ApplyApproval assigns the RSBSA number and replaces the coordinator notes, clearing them when notes is nil.
func (e *Enrollment) ApplyApproval(rsbsaNumber string, notes *string, now time.Time) {
	number := strings.TrimSpace(rsbsaNumber)
	e.ApplicationStatus = OpApprove.Target()
	e.ApprovedAt = &now
	e.AssignedRSBSANumber = &number
	e.RSBSANumberAssignedAt = &now
	e.CoordinatorNotes = notes
}

func (e *Enrollment) CanReject() error {
	if !e.ApplicationStatus.Allows(OpReject) {
		return apperror.InvalidTransition("Enrollment cannot be rejected in current status")
	}
	return nil
}

func (e *Enrollment) ApplyRejection(reason string, notes *string, now time.Time) {
	e.ApplicationStatus = OpReject.Target()
	e.RejectedAt = &now
	e.RejectionReason = &reason
	e.CoordinatorNotes = notes
}

func (e *Enrollment) CanDelete() error {
	if e.ApplicationStatus != StatusDraft {
		return apperror.Forbidden("Only draft enrollments can be deleted")
	}
	return nil
}

func (e *Enrollment) IsCompleted() bool {
	return e.ApplicationStatus.IsCompleted()
}
