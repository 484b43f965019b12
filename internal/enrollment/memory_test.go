package enrollment_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type users map[uint]*user.User

func (u users) GetByID(_ context.Context, id uint) (*user.User, error) {
	if found, ok := u[id]; ok {
		return found, nil
	}
	return nil, user.ErrUserNotFound
}

type beneficiaries map[uint]*beneficiary.BeneficiaryDetail

func (b beneficiaries) GetByID(_ context.Context, id uint) (*beneficiary.BeneficiaryDetail, error) {
	if found, ok := b[id]; ok {
		return found, nil
	}
	return nil, beneficiary.ErrBeneficiaryNotFound
}

type profiles map[uint]*farmprofile.FarmProfile

func (p profiles) GetByID(_ context.Context, id uint) (*farmprofile.FarmProfile, error) {
	if found, ok := p[id]; ok {
		return found, nil
	}
	return nil, farmprofile.ErrFarmProfileNotFound
}

// memoryRepo mirrors the Postgres repository: per-year counter, unique constraints,
// all-or-nothing mutations and an append-only history.
type memoryRepo struct {
	mu       sync.Mutex
	rows     map[uint]*enrollment.Enrollment
	deleted  map[uint]bool
	history  []enrollment.StatusHistory
	counters map[int]int64
	nextID   uint
	clock    time.Time
	users    users
	bens     beneficiaries
}

func newMemoryRepo(u users, b beneficiaries) *memoryRepo {
	return &memoryRepo{
		rows:     map[uint]*enrollment.Enrollment{},
		deleted:  map[uint]bool{},
		counters: map[int]int64{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    u,
		bens:     b,
	}
}

func (m *memoryRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryRepo) record(id uint, from *enrollment.ApplicationStatus, to enrollment.ApplicationStatus, c enrollment.Change) {
	h := enrollment.StatusHistory{
		ID:           uint(len(m.history) + 1),
		EventID:      uuid.New(),
		EnrollmentID: id,
		Action:       c.Action,
		FromStatus:   from,
		ToStatus:     to,
		ActorID:      c.ActorID,
		CreatedAt:    m.tick(),
	}
	if len(c.Metadata) > 0 {
		h.Metadata, _ = json.Marshal(c.Metadata)
	}
	m.history = append(m.history, h)
}

func (m *memoryRepo) live(id uint) (*enrollment.Enrollment, bool) {
	e, ok := m.rows[id]
	if !ok || m.deleted[id] {
		return nil, false
	}
	return e, true
}

func (m *memoryRepo) conflicts(e *enrollment.Enrollment) error {
	for id, other := range m.rows {
		if id == e.ID {
			continue
		}
		if other.ApplicationReferenceCode == e.ApplicationReferenceCode {
			return enrollment.ErrDuplicateReferenceCode
		}
		if e.AssignedRSBSANumber != nil && other.AssignedRSBSANumber != nil && *other.AssignedRSBSANumber == *e.AssignedRSBSANumber {
			return enrollment.ErrDuplicateRSBSANumber
		}
		if !m.deleted[id] && other.UserID == e.UserID && other.EnrollmentYear == e.EnrollmentYear {
			return enrollment.ErrDuplicateEnrollment
		}
	}
	return nil
}

func (m *memoryRepo) codeTaken(code string) bool {
	for _, other := range m.rows {
		if other.ApplicationReferenceCode == code {
			return true
		}
	}
	return false
}

// Create mirrors the transactional repository: counter bumps survive a reference-code
// collision, any other failure rolls the counter back with the insert.
func (m *memoryRepo) Create(_ context.Context, e *enrollment.Enrollment, actorID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	year := e.EnrollmentYear
	before, seeded := m.counters[year]
	rollback := func() {
		if seeded {
			m.counters[year] = before
		} else {
			delete(m.counters, year)
		}
	}

	if e.ApplicationReferenceCode == "" {
		if !seeded {
			for _, r := range m.rows {
				if r.EnrollmentYear == year {
					m.counters[year]++
				}
			}
		}
		for {
			m.counters[year]++
			code := enrollment.ReferenceCode(year, m.counters[year])
			if !m.codeTaken(code) {
				e.ApplicationReferenceCode = code
				break
			}
		}
	}
	if err := m.conflicts(e); err != nil {
		rollback()
		return err
	}

	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = m.tick()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.rows[e.ID] = &cp
	m.record(e.ID, nil, e.ApplicationStatus, enrollment.Change{Action: enrollment.ActionCreated, ActorID: actorID})
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uint) (*enrollment.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(id)
	if !ok {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memoryRepo) withRelations(e *enrollment.Enrollment) *enrollment.Enrollment {
	cp := *e
	cp.User = m.users[e.UserID]
	cp.Beneficiary = m.bens[e.BeneficiaryID]
	if e.ReviewedBy != nil {
		cp.Reviewer = m.users[*e.ReviewedBy]
	}
	return &cp
}

func (m *memoryRepo) GetDetailed(ctx context.Context, id uint) (*enrollment.Enrollment, error) {
	e, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.withRelations(e), nil
}

func (m *memoryRepo) latest(match func(*enrollment.Enrollment) bool) (*enrollment.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *enrollment.Enrollment
	for id, e := range m.rows {
		if m.deleted[id] || !match(e) {
			continue
		}
		if best == nil || e.CreatedAt.After(best.CreatedAt) {
			best = e
		}
	}
	if best == nil {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	return m.withRelations(best), nil
}

func (m *memoryRepo) LatestByUser(_ context.Context, userID uint) (*enrollment.Enrollment, error) {
	return m.latest(func(e *enrollment.Enrollment) bool { return e.UserID == userID })
}

func (m *memoryRepo) LatestByBeneficiary(_ context.Context, beneficiaryID uint) (*enrollment.Enrollment, error) {
	return m.latest(func(e *enrollment.Enrollment) bool { return e.BeneficiaryID == beneficiaryID })
}

func (m *memoryRepo) FindByRSBSANumber(_ context.Context, number string, includeDeleted bool) (*enrollment.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.rows {
		if m.deleted[id] && !includeDeleted {
			continue
		}
		if e.AssignedRSBSANumber != nil && *e.AssignedRSBSANumber == strings.TrimSpace(number) {
			return m.withRelations(e), nil
		}
	}
	return nil, enrollment.ErrEnrollmentNotFound
}

func (m *memoryRepo) ExistsForUserYear(_ context.Context, userID uint, year int, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.rows {
		if !m.deleted[id] && id != excludeID && e.UserID == userID && e.EnrollmentYear == year {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) List(_ context.Context, f enrollment.ListFilter, page util.Params) ([]enrollment.Enrollment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []enrollment.Enrollment
	for id, e := range m.rows {
		switch {
		case m.deleted[id]:
		case f.Status != nil && e.ApplicationStatus != *f.Status:
		case f.Year != nil && e.EnrollmentYear != *f.Year:
		case f.UserID != nil && e.UserID != *f.UserID:
		case f.BeneficiaryID != nil && e.BeneficiaryID != *f.BeneficiaryID:
		case f.Search != "" && !strings.Contains(strings.ToLower(e.ApplicationReferenceCode), strings.ToLower(f.Search)):
		default:
			out = append(out, *m.withRelations(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	start := min(page.Offset(), len(out))
	end := min(start+page.Limit(), len(out))
	return out[start:end], total, nil
}

func (m *memoryRepo) apply(id uint, change *enrollment.Change, fn func(*enrollment.Enrollment) error) (*enrollment.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.live(id)
	if !ok {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	working := *current
	from := working.ApplicationStatus
	if err := fn(&working); err != nil {
		return nil, err
	}
	if err := m.conflicts(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = m.tick()
	m.rows[id] = &working
	if change != nil {
		m.record(id, &from, working.ApplicationStatus, *change)
	}
	cp := working
	return &cp, nil
}

func (m *memoryRepo) Update(_ context.Context, id uint, fn func(*enrollment.Enrollment) error) (*enrollment.Enrollment, error) {
	return m.apply(id, nil, fn)
}

func (m *memoryRepo) Transition(_ context.Context, id uint, change enrollment.Change, fn func(*enrollment.Enrollment) error) (*enrollment.Enrollment, error) {
	return m.apply(id, &change, fn)
}

func (m *memoryRepo) Delete(_ context.Context, id uint, actorID *uint, guard func(*enrollment.Enrollment) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(id)
	if !ok {
		return enrollment.ErrEnrollmentNotFound
	}
	cp := *e
	if err := guard(&cp); err != nil {
		return err
	}
	m.deleted[id] = true
	from := e.ApplicationStatus
	m.record(id, &from, e.ApplicationStatus, enrollment.Change{Action: enrollment.ActionDeleted, ActorID: actorID})
	return nil
}

func (m *memoryRepo) History(_ context.Context, id uint) ([]enrollment.StatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []enrollment.StatusHistory
	for _, h := range m.history {
		if h.EnrollmentID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memoryRepo) Statistics(_ context.Context, year int) (*enrollment.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &enrollment.Statistics{
		ByStatus: map[enrollment.ApplicationStatus]int64{},
		ByYear:   map[int]int64{},
	}
	for id, e := range m.rows {
		if m.deleted[id] {
			continue
		}
		stats.TotalEnrollments++
		stats.ByStatus[e.ApplicationStatus]++
		stats.ByYear[e.EnrollmentYear]++
		if e.ApplicationStatus == enrollment.StatusDraft || e.ApplicationStatus == enrollment.StatusSubmitted {
			stats.PendingReview++
		}
		if e.EnrollmentYear == year && e.ApplicationStatus == enrollment.StatusApproved {
			stats.ApprovedThisYear++
		}
		if e.EnrollmentYear == year && e.ApplicationStatus == enrollment.StatusRejected {
			stats.RejectedThisYear++
		}
	}
	return stats, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deletes++
	}
	return nil
}
