// Package listing holds the filter and pagination types shared by the leave
// and user listings.
package listing

import (
	"strings"

	"github.com/google/uuid"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/platform/apperror"
)

const PerPage = 10

var statuses = map[string]bool{"pending": true, "approved": true, "rejected": true}

// Filter is the closed set of listing filters. Empty fields match
// everything.
type Filter struct {
	Status  string
	OwnerID string
	Role    auth.Role
	Search  string
}

// Validate rejects filter values outside their enumerations.
func (f Filter) Validate() error {
	fields := map[string]string{}
	if f.Status != "" && !statuses[f.Status] {
		fields["status"] = "Invalid status. Allowed values: pending, approved, rejected."
	}
	if f.OwnerID != "" && uuid.Validate(f.OwnerID) != nil {
		fields["user_id"] = "The selected user id is invalid."
	}
	if f.Role != "" && !f.Role.Valid() {
		fields["role"] = "Invalid role. Allowed values: admin, employee."
	}
	if len(f.Search) > 255 {
		fields["search"] = "Search cannot exceed 255 characters."
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

// SearchPattern returns the ILIKE pattern for Search with wildcards escaped.
func (f Filter) SearchPattern() string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(f.Search)
	return "%" + escaped + "%"
}

type Page struct {
	Number int
}

func NewPage(number int) Page {
	if number < 1 {
		number = 1
	}
	return Page{Number: number}
}

func (p Page) Limit() int {
	return PerPage
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * PerPage
}

type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func NewPagination(page Page, total int) Pagination {
	last := (total + PerPage - 1) / PerPage
	if last < 1 {
		last = 1
	}
	current := page.Number
	if current < 1 {
		current = 1
	}
	return Pagination{CurrentPage: current, LastPage: last, PerPage: PerPage, Total: total}
}
