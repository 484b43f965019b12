package enrollment

type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "draft"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusReviewing ApplicationStatus = "reviewing"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusCancelled ApplicationStatus = "cancelled"
)

var AllStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusReviewing,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Display() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Submitted for Review"
	case StatusReviewing:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Color is the badge colour the frontend renders for the status.
func (s ApplicationStatus) Color() string {
	switch s {
	case StatusSubmitted:
		return "info"
	case StatusReviewing:
		return "warning"
	case StatusApproved:
		return "success"
	case StatusRejected, StatusCancelled:
		return "error"
	default:
		return "default"
	}
}

// IsCompleted reports a decided enrollment. Cancelled is terminal but not a decision.
func (s ApplicationStatus) IsCompleted() bool {
	return s == StatusApproved || s == StatusRejected
}

type Operation string

const (
	OpSubmit         Operation = "submit"
	OpAssignReviewer Operation = "assign_reviewer"
	OpApprove        Operation = "approve"
	OpReject         Operation = "reject"
)

// transitions lists, per operation, the statuses it may start from and the status it produces.
// Approval is only reachable from submitted; rejection is also allowed while under review.
var transitions = map[Operation]struct {
	from []ApplicationStatus
	to   ApplicationStatus
}{
	OpSubmit:         {from: []ApplicationStatus{StatusDraft}, to: StatusSubmitted},
	OpAssignReviewer: {from: []ApplicationStatus{StatusSubmitted, StatusReviewing}, to: StatusReviewing},
	OpApprove:        {from: []ApplicationStatus{StatusSubmitted}, to: StatusApproved},
	OpReject:         {from: []ApplicationStatus{StatusSubmitted, StatusReviewing}, to: StatusRejected},
}

func (s ApplicationStatus) Allows(op Operation) bool {
	t, ok := transitions[op]
	if !ok {
		return false
	}
	for _, from := range t.from {
		if s == from {
			return true
		}
	}
	return false
}

// Target returns the status op moves an enrollment into.
func (op Operation) Target() ApplicationStatus {
	return transitions[op].to
}

type EnrollmentType string

const (
	TypeNew     EnrollmentType = "new"
	TypeRenewal EnrollmentType = "renewal"
	TypeUpdate  EnrollmentType = "update"
)

func (t EnrollmentType) IsValid() bool {
	return t == TypeNew || t == TypeRenewal || t == TypeUpdate
}

// History actions recorded alongside status changes.
const (
	ActionCreated        = "created"
	ActionSubmitted      = "submitted"
	ActionReviewAssigned = "reviewer_assigned"
	ActionApproved       = "approved"
	ActionRejected       = "rejected"
	ActionDeleted        = "deleted"
)

const MinEnrollmentYear = 2020
