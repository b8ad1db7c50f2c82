package users

import (
	"time"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/listing"
)

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        auth.Role `json:"role"`
	Department  *string   `json:"department"`
	EmployeeID  string    `json:"employee_id"`
	JoiningDate *string   `json:"joining_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Department           *string
	EmployeeID           string
	JoiningDate          *time.Time
}

// NewUser is a validated registration ready to insert.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         auth.Role
	Department   *string
	EmployeeID   string
	JoiningDate  *time.Time
}

type ListResult struct {
	Users []User
	Total int
}

type ListPage struct {
	Users      []User             `json:"users"`
	Pagination listing.Pagination `json:"pagination"`
}

// Profile is a user together with their leave history summary.
type Profile struct {
	User            User              `json:"user"`
	LeaveStatistics leave.OwnerCounts `json:"leave_statistics"`
	RecentLeaves    []leave.Leave     `json:"recent_leaves"`
}
