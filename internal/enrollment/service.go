package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/metrics"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

const (
	invalidData       = "The given data was invalid."
	duplicateYear     = "User already has an enrollment for this year"
	duplicateRSBSA    = "The assigned rsbsa number has already been taken."
	enrollmentMissing = "RSBSA enrollment not found"
)

type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

type BeneficiaryLookup interface {
	GetByID(ctx context.Context, id uint) (*beneficiary.BeneficiaryDetail, error)
}

type FarmProfileLookup interface {
	GetByID(ctx context.Context, id uint) (*farmprofile.FarmProfile, error)
}

// StatsCache stores the statistics snapshot. Failures are logged and never surface to callers.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

type EnrollmentService interface {
	Create(ctx context.Context, actor *auth.Claims, req CreateEnrollmentRequest) (*EnrollmentResponse, error)
	Get(ctx context.Context, actor *auth.Claims, id uint) (*EnrollmentResponse, error)
	List(ctx context.Context, actor *auth.Claims, filter ListFilter, page util.Params) ([]EnrollmentResponse, util.Meta, error)
	Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateEnrollmentRequest) (*EnrollmentResponse, error)
	Delete(ctx context.Context, actor *auth.Claims, id uint) error
	Submit(ctx context.Context, actor *auth.Claims, id uint) (*EnrollmentResponse, error)
	AssignReviewer(ctx context.Context, actor *auth.Claims, id uint, req AssignReviewerRequest) (*EnrollmentResponse, error)
	Approve(ctx context.Context, actor *auth.Claims, id uint, req ApproveRequest) (*EnrollmentResponse, error)
	Reject(ctx context.Context, actor *auth.Claims, id uint, req RejectRequest) (*EnrollmentResponse, error)
	GetByUser(ctx context.Context, actor *auth.Claims, userID uint) (*EnrollmentResponse, error)
	GetByBeneficiary(ctx context.Context, actor *auth.Claims, beneficiaryID uint) (*EnrollmentResponse, error)
	Status(ctx context.Context, actor *auth.Claims, id uint) (*StatusResponse, error)
	History(ctx context.Context, actor *auth.Claims, id uint) ([]StatusHistory, error)
	Statistics(ctx context.Context) (*Statistics, error)
	VerifyRSBSANumber(ctx context.Context, req VerifyRequest) (*VerificationResponse, error)
}

type enrollmentService struct {
	repo          EnrollmentRepository
	users         UserLookup
	beneficiaries BeneficiaryLookup
	profiles      FarmProfileLookup
	cache         StatsCache
	cacheTTL      time.Duration
	now           func() time.Time
}

type Option func(*enrollmentService)

// WithStatsCache enables statistics caching. A nil cache leaves caching off.
func WithStatsCache(c StatsCache, ttl time.Duration) Option {
	return func(s *enrollmentService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *enrollmentService) { s.now = now }
}

func NewService(repo EnrollmentRepository, users UserLookup, beneficiaries BeneficiaryLookup, profiles FarmProfileLookup, opts ...Option) EnrollmentService {
	s := &enrollmentService{
		repo:          repo,
		users:         users,
		beneficiaries: beneficiaries,
		profiles:      profiles,
		cacheTTL:      time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validate(v any) error {
	fields, err := util.ValidateStruct(v)
	if err != nil {
		return apperror.Internal(err, "validation failed")
	}
	if fields != nil {
		return apperror.Validation(invalidData, fields)
	}
	return nil
}

func (s *enrollmentService) currentYear() int {
	return s.now().In(util.Manila()).Year()
}

func (s *enrollmentService) checkYear(year int) map[string]string {
	maxYear := s.currentYear() + 1
	if year < MinEnrollmentYear || year > maxYear {
		return map[string]string{
			"enrollment_year": fmt.Sprintf("The enrollment year must be between %d and %d.", MinEnrollmentYear, maxYear),
		}
	}
	return nil
}

func (s *enrollmentService) Create(ctx context.Context, actor *auth.Claims, req CreateEnrollmentRequest) (*EnrollmentResponse, error) {
	log := config.WithContext(ctx)

	if err := validate(req); err != nil {
		return nil, err
	}
	year := s.currentYear()
	if req.EnrollmentYear != nil {
		year = *req.EnrollmentYear
	}
	if fields := s.checkYear(year); fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}
	if !actor.IsStaff() && req.UserID != actor.UserID {
		return nil, apperror.Forbidden("You may only create an enrollment for yourself")
	}
	req.ApplicationReferenceCode = strings.TrimSpace(req.ApplicationReferenceCode)
	if !actor.IsStaff() && req.ApplicationReferenceCode != "" {
		return nil, apperror.Forbidden("Only coordinators can set the application reference code")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForUserYear(ctx, req.UserID, year, 0)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check existing enrollment")
	}
	if exists {
		return nil, apperror.Conflict(duplicateYear)
	}

	e := &Enrollment{
		UserID:                   req.UserID,
		BeneficiaryID:            req.BeneficiaryID,
		FarmProfileID:            req.FarmProfileID,
		ApplicationReferenceCode: req.ApplicationReferenceCode,
		EnrollmentYear:           year,
		EnrollmentType:           EnrollmentType(req.EnrollmentType),
		ApplicationStatus:        StatusDraft,
	}
	actorID := actor.UserID
	if err := s.repo.Create(ctx, e, &actorID); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEnrollment):
			return nil, apperror.Conflict(duplicateYear)
		case errors.Is(err, ErrDuplicateReferenceCode):
			return nil, apperror.Conflict("Application reference code already exists")
		}
		log.WithError(err).WithField("user_id", req.UserID).Error("Failed to create enrollment")
		return nil, apperror.Internal(err, "failed to create enrollment")
	}

	metrics.IncrementEnrollmentsCreated(string(e.EnrollmentType))
	s.invalidateStatistics(ctx)
	log.WithFields(logrus.Fields{
		"enrollment_id":  e.ID,
		"reference_code": e.ApplicationReferenceCode,
		"user_id":        e.UserID,
	}).Info("Enrollment created")

	return s.detailed(ctx, e.ID)
}

// checkReferences collects every missing or mismatched reference into one validation error.
func (s *enrollmentService) checkReferences(ctx context.Context, req CreateEnrollmentRequest) error {
	fields := map[string]string{}

	if _, err := s.users.GetByID(ctx, req.UserID); errors.Is(err, user.ErrUserNotFound) {
		fields["user_id"] = "The selected user id is invalid."
	} else if err != nil {
		return apperror.Internal(err, "failed to load user")
	}

	b, err := s.beneficiaries.GetByID(ctx, req.BeneficiaryID)
	switch {
	case errors.Is(err, beneficiary.ErrBeneficiaryNotFound):
		fields["beneficiary_id"] = "The selected beneficiary id is invalid."
	case err != nil:
		return apperror.Internal(err, "failed to load beneficiary")
	case b.UserID != req.UserID:
		fields["beneficiary_id"] = "The selected beneficiary does not belong to this user."
	}

	p, err := s.profiles.GetByID(ctx, req.FarmProfileID)
	switch {
	case errors.Is(err, farmprofile.ErrFarmProfileNotFound):
		fields["farm_profile_id"] = "The selected farm profile id is invalid."
	case err != nil:
		return apperror.Internal(err, "failed to load farm profile")
	case p.BeneficiaryID != req.BeneficiaryID:
		fields["farm_profile_id"] = "The selected farm profile does not belong to this beneficiary."
	}

	if len(fields) > 0 {
		return apperror.Validation(invalidData, fields)
	}
	return nil
}

func (s *enrollmentService) detailed(ctx context.Context, id uint) (*EnrollmentResponse, error) {
	e, err := s.repo.GetDetailed(ctx, id)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, apperror.NotFound(enrollmentMissing)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	return ToResponse(e), nil
}

func authorize(actor *auth.Claims, e *Enrollment) error {
	if actor.IsStaff() || e.UserID == actor.UserID {
		return nil
	}
	return apperror.Forbidden("You do not have access to this enrollment")
}

// loadDetailed fetches the enrollment with its relations and checks the actor may see it.
func (s *enrollmentService) loadDetailed(ctx context.Context, actor *auth.Claims, id uint) (*Enrollment, error) {
	e, err := s.repo.GetDetailed(ctx, id)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, apperror.NotFound(enrollmentMissing)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	if err := authorize(actor, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) Get(ctx context.Context, actor *auth.Claims, id uint) (*EnrollmentResponse, error) {
	e, err := s.loadDetailed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(e), nil
}

func (s *enrollmentService) Status(ctx context.Context, actor *auth.Claims, id uint) (*StatusResponse, error) {
	e, err := s.loadDetailed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToStatusResponse(e), nil
}

func (s *enrollmentService) History(ctx context.Context, actor *auth.Claims, id uint) ([]StatusHistory, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, apperror.NotFound(enrollmentMissing)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	if err := authorize(actor, e); err != nil {
		return nil, err
	}

	rows, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment history")
	}
	return rows, nil
}

func (s *enrollmentService) List(ctx context.Context, actor *auth.Claims, filter ListFilter, page util.Params) ([]EnrollmentResponse, util.Meta, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, util.Meta{}, apperror.Validation(invalidData, map[string]string{"status": "The selected status is invalid."})
	}
	if !actor.IsStaff() {
		own := actor.UserID
		filter.UserID = &own
	}

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list enrollments")
		return nil, util.Meta{}, apperror.Internal(err, "failed to list enrollments")
	}
	return ToResponses(list), util.BuildMeta(total, page), nil
}

func (s *enrollmentService) Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateEnrollmentRequest) (*EnrollmentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.EnrollmentYear != nil {
		if fields := s.checkYear(*req.EnrollmentYear); fields != nil {
			return nil, apperror.Validation(invalidData, fields)
		}
	}
	if req.CoordinatorNotes != nil && !actor.IsStaff() {
		return nil, apperror.Forbidden("Only coordinators can edit coordinator notes")
	}

	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, apperror.NotFound(enrollmentMissing)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	if err := authorize(actor, current); err != nil {
		return nil, err
	}

	if req.EnrollmentYear != nil && *req.EnrollmentYear != current.EnrollmentYear {
		taken, err := s.repo.ExistsForUserYear(ctx, current.UserID, *req.EnrollmentYear, id)
		if err != nil {
			return nil, apperror.Internal(err, "failed to check existing enrollment")
		}
		if taken {
			return nil, apperror.Conflict(duplicateYear)
		}
	}

	_, err = s.repo.Update(ctx, id, func(e *Enrollment) error {
		// Applicants edit only their drafts; staff may correct any status.
		if !actor.IsStaff() && e.ApplicationStatus != StatusDraft {
			return apperror.Forbidden("Only draft enrollments can be edited")
		}
		if req.EnrollmentType != nil {
			e.EnrollmentType = EnrollmentType(*req.EnrollmentType)
		}
		if req.EnrollmentYear != nil {
			e.EnrollmentYear = *req.EnrollmentYear
		}
		if req.CoordinatorNotes != nil {
			e.CoordinatorNotes = req.CoordinatorNotes
		}
		return nil
	})
	if err != nil {
		return nil, s.mutationError(ctx, err, id, "update")
	}

	s.invalidateStatistics(ctx)
	return s.detailed(ctx, id)
}

func (s *enrollmentService) mutationError(ctx context.Context, err error, id uint, op string) error {
	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrEnrollmentNotFound):
		return apperror.NotFound(enrollmentMissing)
	case errors.Is(err, ErrDuplicateEnrollment):
		return apperror.Conflict(duplicateYear)
	case errors.Is(err, ErrDuplicateRSBSANumber):
		return apperror.Conflict(duplicateRSBSA)
	}
	config.WithContext(ctx).WithError(err).WithField("enrollment_id", id).Errorf("Failed to %s enrollment", op)
	return apperror.Internal(err, "failed to "+op+" enrollment")
}

func (s *enrollmentService) Delete(ctx context.Context, actor *auth.Claims, id uint) error {
	actorID := actor.UserID
	err := s.repo.Delete(ctx, id, &actorID, func(e *Enrollment) error {
		if err := authorize(actor, e); err != nil {
			return err
		}
		return e.CanDelete()
	})
	if err != nil {
		return s.mutationError(ctx, err, id, "delete")
	}

	s.invalidateStatistics(ctx)
	config.WithContext(ctx).WithField("enrollment_id", id).Info("Enrollment deleted")
	return nil
}

// transition runs one lifecycle operation and records its outcome.
func (s *enrollmentService) transition(ctx context.Context, op Operation, id uint, change Change, fn func(*Enrollment) error) (*EnrollmentResponse, error) {
	e, err := s.repo.Transition(ctx, id, change, fn)
	if err != nil {
		result := metrics.ResultError
		switch apperror.CodeOf(err) {
		case apperror.CodeInvalidTransition:
			result = metrics.ResultInvalidTransition
		case apperror.CodeForbidden, apperror.CodeValidation:
			result = metrics.ResultRejected
		}
		if errors.Is(err, ErrEnrollmentNotFound) || errors.Is(err, ErrDuplicateRSBSANumber) {
			result = metrics.ResultRejected
		}
		metrics.IncrementTransition(string(op), result)
		return nil, s.mutationError(ctx, err, id, string(op))
	}

	metrics.IncrementTransition(string(op), metrics.ResultOK)
	s.invalidateStatistics(ctx)
	config.WithContext(ctx).WithFields(logrus.Fields{
		"enrollment_id": e.ID,
		"operation":     op,
		"status":        e.ApplicationStatus,
	}).Info("Enrollment transitioned")

	return s.detailed(ctx, e.ID)
}

func (s *enrollmentService) Submit(ctx context.Context, actor *auth.Claims, id uint) (*EnrollmentResponse, error) {
	actorID := actor.UserID
	return s.transition(ctx, OpSubmit, id, Change{Action: ActionSubmitted, ActorID: &actorID}, func(e *Enrollment) error {
		if err := authorize(actor, e); err != nil {
			return err
		}
		if err := e.CanSubmit(); err != nil {
			return err
		}
		e.ApplySubmit(s.now())
		return nil
	})
}

func requireStaff(actor *auth.Claims) error {
	if !actor.IsStaff() {
		return apperror.Forbidden("Only coordinators can review enrollments")
	}
	return nil
}

func (s *enrollmentService) AssignReviewer(ctx context.Context, actor *auth.Claims, id uint, req AssignReviewerRequest) (*EnrollmentResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	reviewerID := actor.UserID
	if req.ReviewerID != nil {
		reviewerID = *req.ReviewerID
		reviewer, err := s.users.GetByID(ctx, reviewerID)
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.Validation(invalidData, map[string]string{"reviewer_id": "The selected reviewer id is invalid."})
		}
		if err != nil {
			return nil, apperror.Internal(err, "failed to load reviewer")
		}
		if reviewer.Role != auth.RoleCoordinator && reviewer.Role != auth.RoleAdmin {
			return nil, apperror.Validation(invalidData, map[string]string{"reviewer_id": "The selected reviewer must be a coordinator."})
		}
	}

	actorID := actor.UserID
	change := Change{
		Action:   ActionReviewAssigned,
		ActorID:  &actorID,
		Metadata: map[string]any{"reviewer_id": reviewerID},
	}
	return s.transition(ctx, OpAssignReviewer, id, change, func(e *Enrollment) error {
		if err := e.CanAssignReviewer(); err != nil {
			return err
		}
		e.ApplyAssignReviewer(reviewerID)
		return nil
	})
}

func (s *enrollmentService) Approve(ctx context.Context, actor *auth.Claims, id uint, req ApproveRequest) (*EnrollmentResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	req.AssignedRSBSANumber = strings.TrimSpace(req.AssignedRSBSANumber)
	if err := validate(req); err != nil {
		return nil, err
	}

	holder, err := s.repo.FindByRSBSANumber(ctx, req.AssignedRSBSANumber, true)
	switch {
	case err == nil && holder.ID != id:
		metrics.IncrementTransition(string(OpApprove), metrics.ResultRejected)
		return nil, apperror.Conflict(duplicateRSBSA)
	case err != nil && !errors.Is(err, ErrEnrollmentNotFound):
		return nil, apperror.Internal(err, "failed to check rsbsa number")
	}

	actorID := actor.UserID
	change := Change{
		Action:   ActionApproved,
		ActorID:  &actorID,
		Metadata: map[string]any{"assigned_rsbsa_number": req.AssignedRSBSANumber},
	}
	return s.transition(ctx, OpApprove, id, change, func(e *Enrollment) error {
		if err := e.CanApprove(); err != nil {
			return err
		}
		e.ApplyApproval(req.AssignedRSBSANumber, req.CoordinatorNotes, s.now())
		return nil
	})
}

func (s *enrollmentService) Reject(ctx context.Context, actor *auth.Claims, id uint, req RejectRequest) (*EnrollmentResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	req.RejectionReason = strings.TrimSpace(req.RejectionReason)
	if err := validate(req); err != nil {
		return nil, err
	}

	actorID := actor.UserID
	change := Change{
		Action:   ActionRejected,
		ActorID:  &actorID,
		Metadata: map[string]any{"rejection_reason": req.RejectionReason},
	}
	return s.transition(ctx, OpReject, id, change, func(e *Enrollment) error {
		if err := e.CanReject(); err != nil {
			return err
		}
		e.ApplyRejection(req.RejectionReason, req.CoordinatorNotes, s.now())
		return nil
	})
}

// GetByUser returns the user's most recent enrollment, or nil when there is none.
func (s *enrollmentService) GetByUser(ctx context.Context, actor *auth.Claims, userID uint) (*EnrollmentResponse, error) {
	if !actor.IsStaff() && userID != actor.UserID {
		return nil, apperror.Forbidden("You do not have access to this user's enrollments")
	}
	e, err := s.repo.LatestByUser(ctx, userID)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	return ToResponse(e), nil
}

func (s *enrollmentService) GetByBeneficiary(ctx context.Context, actor *auth.Claims, beneficiaryID uint) (*EnrollmentResponse, error) {
	e, err := s.repo.LatestByBeneficiary(ctx, beneficiaryID)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	if err := authorize(actor, e); err != nil {
		return nil, err
	}
	return ToResponse(e), nil
}

func statisticsKey(year int) string {
	return "enrollments:statistics:" + strconv.Itoa(year)
}

func (s *enrollmentService) Statistics(ctx context.Context) (*Statistics, error) {
	log := config.WithContext(ctx)
	year := s.currentYear()
	key := statisticsKey(year)

	if s.cache != nil {
		var cached Statistics
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.WithError(err).Warn("Statistics cache read failed")
		}
		metrics.IncrementStatisticsCache(found)
		if found {
			return &cached, nil
		}
	}

	stats, err := s.repo.Statistics(ctx, year)
	if err != nil {
		log.WithError(err).Error("Failed to compute enrollment statistics")
		return nil, apperror.Internal(err, "failed to compute statistics")
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, stats, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Statistics cache write failed")
		}
	}
	return stats, nil
}

func (s *enrollmentService) invalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, statisticsKey(s.currentYear())); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Statistics cache invalidation failed")
	}
}

func (s *enrollmentService) VerifyRSBSANumber(ctx context.Context, req VerifyRequest) (*VerificationResponse, error) {
	req.RSBSANumber = strings.TrimSpace(req.RSBSANumber)
	if err := validate(req); err != nil {
		return nil, err
	}

	resp := &VerificationResponse{RSBSANumber: req.RSBSANumber}
	e, err := s.repo.FindByRSBSANumber(ctx, req.RSBSANumber, false)
	if errors.Is(err, ErrEnrollmentNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to verify rsbsa number")
	}
	if e.ApplicationStatus != StatusApproved {
		return resp, nil
	}

	resp.Verified = true
	resp.ApplicationReferenceCode = e.ApplicationReferenceCode
	resp.EnrollmentYear = e.EnrollmentYear
	resp.ApprovedAt = e.ApprovedAt
	if e.Beneficiary != nil {
		resp.BeneficiaryName = e.Beneficiary.FullName()
	}
	return resp, nil
}
