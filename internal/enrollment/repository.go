package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

var (
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrDuplicateEnrollment    = errors.New("user already has an enrollment for this year")
	ErrDuplicateReferenceCode = errors.New("application reference code already exists")
	ErrDuplicateRSBSANumber   = errors.New("rsbsa number already assigned")
)

// Change describes the history row written with a lifecycle mutation.
type Change struct {
	Action   string
	ActorID  *uint
	Metadata map[string]any
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment, actorID *uint) error
	GetByID(ctx context.Context, id uint) (*Enrollment, error)
	GetDetailed(ctx context.Context, id uint) (*Enrollment, error)
	LatestByUser(ctx context.Context, userID uint) (*Enrollment, error)
	LatestByBeneficiary(ctx context.Context, beneficiaryID uint) (*Enrollment, error)
	FindByRSBSANumber(ctx context.Context, number string, includeDeleted bool) (*Enrollment, error)
	ExistsForUserYear(ctx context.Context, userID uint, year int, excludeID uint) (bool, error)
	List(ctx context.Context, filter ListFilter, page util.Params) ([]Enrollment, int64, error)
	Update(ctx context.Context, id uint, fn func(*Enrollment) error) (*Enrollment, error)
	Transition(ctx context.Context, id uint, change Change, fn func(*Enrollment) error) (*Enrollment, error)
	Delete(ctx context.Context, id uint, actorID *uint, guard func(*Enrollment) error) error
	History(ctx context.Context, id uint) ([]StatusHistory, error)
	Statistics(ctx context.Context, year int) (*Statistics, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// nextSequenceSQL bumps the per-year counter under the row lock taken by the upsert.
// A new year is seeded from the rows already stored, deleted ones included.
const nextSequenceSQL = `
INSERT INTO enrollment_sequences (year, last_value)
VALUES (?, (SELECT COUNT(*) FROM rsbsa_enrollments WHERE enrollment_year = ?) + 1)
ON CONFLICT (year) DO UPDATE SET last_value = enrollment_sequences.last_value + 1
RETURNING last_value`

func nextSequence(tx *gorm.DB, year int) (int64, error) {
	var seq int64
	if err := tx.Raw(nextSequenceSQL, year, year).Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}

// maxReferenceAttempts bounds how many counter values Create skips when a generated code is
// already held by a record whose code was supplied by hand.
const maxReferenceAttempts = 20

const referenceSavepoint = "enrollment_reference"

func (r *enrollmentRepository) Create(ctx context.Context, e *Enrollment, actorID *uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if e.ApplicationReferenceCode != "" {
			if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
				return err
			}
		} else if err := insertWithGeneratedCode(tx, e); err != nil {
			return err
		}
		return tx.Create(newHistory(e.ID, nil, e.ApplicationStatus, Change{
			Action:   ActionCreated,
			ActorID:  actorID,
			Metadata: map[string]any{"application_reference_code": e.ApplicationReferenceCode},
		})).Error
	})
	return mapUniqueViolation(err)
}

// insertWithGeneratedCode draws counter values until the insert stops colliding on the
// reference code. Each counter bump sits before the savepoint, so a rolled back insert
// leaves the counter past the taken value.
func insertWithGeneratedCode(tx *gorm.DB, e *Enrollment) error {
	for attempt := 1; ; attempt++ {
		seq, err := nextSequence(tx, e.EnrollmentYear)
		if err != nil {
			return err
		}
		e.ApplicationReferenceCode = ReferenceCode(e.EnrollmentYear, seq)

		if err := tx.SavePoint(referenceSavepoint).Error; err != nil {
			return err
		}
		err = tx.Omit(clause.Associations).Create(e).Error
		if err == nil {
			return nil
		}
		if !errors.Is(mapUniqueViolation(err), ErrDuplicateReferenceCode) || attempt == maxReferenceAttempts {
			return err
		}
		if rbErr := tx.RollbackTo(referenceSavepoint).Error; rbErr != nil {
			return rbErr
		}
		e.ID = 0
	}
}

func mapUniqueViolation(err error) error {
	constraint, ok := config.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "idx_enrollment_reference_code":
		return ErrDuplicateReferenceCode
	case "idx_enrollment_rsbsa_number":
		return ErrDuplicateRSBSANumber
	default:
		return ErrDuplicateEnrollment
	}
}

func newHistory(enrollmentID uint, from *ApplicationStatus, to ApplicationStatus, change Change) *StatusHistory {
	h := &StatusHistory{
		EventID:      uuid.New(),
		EnrollmentID: enrollmentID,
		Action:       change.Action,
		FromStatus:   from,
		ToStatus:     to,
		ActorID:      change.ActorID,
	}
	if len(change.Metadata) > 0 {
		if raw, err := json.Marshal(change.Metadata); err == nil {
			h.Metadata = datatypes.JSON(raw)
		}
	}
	return h
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (*Enrollment, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *enrollmentRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Preload("Beneficiary").
		Preload("FarmProfile.LivelihoodCategory").
		Preload("FarmProfile.Parcels", func(db *gorm.DB) *gorm.DB { return db.Order("farm_parcels.id ASC") }).
		Preload("FarmProfile.FarmerDetails").
		Preload("FarmProfile.FisherfolkDetails").
		Preload("FarmProfile.FarmworkerDetails").
		Preload("FarmProfile.AgriYouthDetails")
}

func (r *enrollmentRepository) GetDetailed(ctx context.Context, id uint) (*Enrollment, error) {
	return first(r.detailed(ctx).Where("rsbsa_enrollments.id = ?", id))
}

func (r *enrollmentRepository) LatestByUser(ctx context.Context, userID uint) (*Enrollment, error) {
	return first(r.detailed(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC"))
}

func (r *enrollmentRepository) LatestByBeneficiary(ctx context.Context, beneficiaryID uint) (*Enrollment, error) {
	return first(r.detailed(ctx).Where("beneficiary_id = ?", beneficiaryID).Order("created_at DESC, id DESC"))
}

func (r *enrollmentRepository) FindByRSBSANumber(ctx context.Context, number string, includeDeleted bool) (*Enrollment, error) {
	q := r.db.WithContext(ctx).Preload("Beneficiary")
	if includeDeleted {
		q = q.Unscoped()
	}
	return first(q.Where("assigned_rsbsa_number = ?", strings.TrimSpace(number)))
}

func first(q *gorm.DB) (*Enrollment, error) {
	var e Enrollment
	err := q.Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) ExistsForUserYear(ctx context.Context, userID uint, year int, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Enrollment{}).Where("user_id = ? AND enrollment_year = ?", userID, year)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("application_status = ?", *f.Status)
	}
	if f.Year != nil {
		q = q.Where("enrollment_year = ?", *f.Year)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.BeneficiaryID != nil {
		q = q.Where("beneficiary_id = ?", *f.BeneficiaryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("application_reference_code ILIKE ?", "%"+likeEscaper.Replace(s)+"%")
	}
	return q
}

func (r *enrollmentRepository) List(ctx context.Context, filter ListFilter, page util.Params) ([]Enrollment, int64, error) {
	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&Enrollment{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Enrollment
	err := applyFilter(r.db.WithContext(ctx), filter).
		Preload("User").
		Preload("Beneficiary").
		Preload("FarmProfile.LivelihoodCategory").
		Preload("FarmProfile.Parcels").
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// lockAndApply loads the row FOR UPDATE, lets fn mutate it and saves it in the same transaction.
// fn errors abort the transaction untouched.
func (r *enrollmentRepository) lockAndApply(ctx context.Context, id uint, change *Change, fn func(*Enrollment) error) (*Enrollment, error) {
	var e Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		if err != nil {
			return err
		}

		from := e.ApplicationStatus
		if err := fn(&e); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&e).Error; err != nil {
			return err
		}
		if change == nil {
			return nil
		}
		return tx.Create(newHistory(e.ID, &from, e.ApplicationStatus, *change)).Error
	})
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &e, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, id uint, fn func(*Enrollment) error) (*Enrollment, error) {
	return r.lockAndApply(ctx, id, nil, fn)
}

func (r *enrollmentRepository) Transition(ctx context.Context, id uint, change Change, fn func(*Enrollment) error) (*Enrollment, error) {
	return r.lockAndApply(ctx, id, &change, fn)
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint, actorID *uint, guard func(*Enrollment) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		if err != nil {
			return err
		}
		if err := guard(&e); err != nil {
			return err
		}
		if err := tx.Delete(&e).Error; err != nil {
			return err
		}
		from := e.ApplicationStatus
		return tx.Create(newHistory(e.ID, &from, e.ApplicationStatus, Change{Action: ActionDeleted, ActorID: actorID})).Error
	})
}

func (r *enrollmentRepository) History(ctx context.Context, id uint) ([]StatusHistory, error) {
	var rows []StatusHistory
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *enrollmentRepository) Statistics(ctx context.Context, year int) (*Statistics, error) {
	stats := &Statistics{
		ByStatus: make(map[ApplicationStatus]int64),
		ByYear:   make(map[int]int64),
	}
	db := r.db.WithContext(ctx)

	var byStatus []struct {
		ApplicationStatus ApplicationStatus
		Count             int64
	}
	if err := db.Model(&Enrollment{}).
		Select("application_status, COUNT(*) AS count").
		Group("application_status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.ByStatus[row.ApplicationStatus] = row.Count
		stats.TotalEnrollments += row.Count
	}
	stats.PendingReview = stats.ByStatus[StatusDraft] + stats.ByStatus[StatusSubmitted]

	var byYear []struct {
		EnrollmentYear int
		Count          int64
	}
	if err := db.Model(&Enrollment{}).
		Select("enrollment_year, COUNT(*) AS count").
		Group("enrollment_year").
		Scan(&byYear).Error; err != nil {
		return nil, err
	}
	for _, row := range byYear {
		stats.ByYear[row.EnrollmentYear] = row.Count
	}

	var decided struct {
		Approved int64
		Rejected int64
	}
	if err := db.Model(&Enrollment{}).
		Select("COUNT(*) FILTER (WHERE application_status = ?) AS approved, COUNT(*) FILTER (WHERE application_status = ?) AS rejected",
			StatusApproved, StatusRejected).
		Where("enrollment_year = ?", year).
		Scan(&decided).Error; err != nil {
		return nil, err
	}
	stats.ApprovedThisYear = decided.Approved
	stats.RejectedThisYear = decided.Rejected

	return stats, nil
}
