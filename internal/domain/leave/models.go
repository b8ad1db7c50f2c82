package leave

import (
	"encoding/json"
	"time"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypePersonal  Type = "personal"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeEmergency Type = "emergency"
)

var Types = []Type{TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypePaternity, TypeEmergency}

func (t Type) Valid() bool {
	for _, candidate := range Types {
		if t == candidate {
			return true
		}
	}
	return false
}

// Uncapped reports whether the type is exempt from the 30 day limit.
func (t Type) Uncapped() bool {
	return t == TypeMaternity || t == TypePaternity
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Active leaves block overlapping requests.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

const DateLayout = "2006-01-02"

// Date is a calendar day in UTC, serialised as YYYY-MM-DD.
type Date time.Time

func NewDate(t time.Time) Date {
	return Date(DateOnly(t))
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Person is the slice of a user embedded in leave responses.
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department,omitempty"`
}

type Leave struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	LeaveType     Type       `json:"leave_type"`
	StartDate     Date       `json:"start_date"`
	EndDate       Date       `json:"end_date"`
	TotalDays     int        `json:"total_days"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status"`
	AdminComments *string    `json:"admin_comments"`
	ApprovedBy    *string    `json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	User          *Person    `json:"user,omitempty"`
	Approver      *Person    `json:"approved_by_user,omitempty"`
}

func (l Leave) Pending() bool {
	return l.Status == StatusPending
}

// Period is the date span of an active leave, used for overlap checks.
type Period struct {
	Start time.Time
	End   time.Time
}

type CreateInput struct {
	LeaveType Type
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type DecideInput struct {
	Status        Status
	AdminComments *string
}

type ListResult struct {
	Leaves []Leave
	Total  int
}

// Summary is the projection of a leave that statistics are computed from.
type Summary struct {
	Status    Status
	LeaveType Type
	CreatedAt time.Time
}

type Overview struct {
	TotalLeaves    int `json:"total_leaves"`
	PendingLeaves  int `json:"pending_leaves"`
	ApprovedLeaves int `json:"approved_leaves"`
	RejectedLeaves int `json:"rejected_leaves"`
	TotalEmployees int `json:"total_employees"`
}

type Statistics struct {
	Overview       Overview     `json:"overview"`
	MonthlyLeaves  [12]int      `json:"monthly_leaves"`
	LeaveTypeStats map[Type]int `json:"leave_type_stats"`
	Year           int          `json:"year"`
}

// OwnerCounts are the per-user totals shown on a user profile.
type OwnerCounts struct {
	TotalLeaves    int `json:"total_leaves"`
	PendingLeaves  int `json:"pending_leaves"`
	ApprovedLeaves int `json:"approved_leaves"`
	RejectedLeaves int `json:"rejected_leaves"`
}
