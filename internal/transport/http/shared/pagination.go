package shared

import (
	"net/http"
	"strconv"
	"strings"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/listing"
)

// ParsePage reads ?page=. Missing or malformed values mean the first page.
func ParsePage(r *http.Request) listing.Page {
	number := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			number = v
		}
	}
	return listing.NewPage(number)
}

// ParseLeaveFilter reads ?status= and ?user_id=. Values are not checked
// here; listing.Filter.Validate rejects anything outside the enumerations.
func ParseLeaveFilter(r *http.Request) listing.Filter {
	q := r.URL.Query()
	return listing.Filter{
		Status:  strings.ToLower(strings.TrimSpace(q.Get("status"))),
		OwnerID: strings.TrimSpace(q.Get("user_id")),
	}
}

// ParseUserFilter reads ?role= and ?search=.
func ParseUserFilter(r *http.Request) listing.Filter {
	q := r.URL.Query()
	return listing.Filter{
		Role:   auth.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
		Search: strings.TrimSpace(q.Get("search")),
	}
}
