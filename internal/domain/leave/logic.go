package leave

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"leavemgmt/internal/platform/apperror"
)

const (
	MaxCappedDays    = 30
	MinReasonLength  = 10
	MaxReasonLength  = 500
	MaxCommentLength = 500
)

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	// Both ends are UTC midnights so the division is exact. Unix seconds
	// avoid time.Duration, which overflows past roughly 292 years.
	return int((end.Unix()-start.Unix())/86400) + 1, nil
}

// Overlaps reports whether the inclusive ranges share at least one day.
func Overlaps(a, b Period) bool {
	return !DateOnly(a.Start).After(DateOnly(b.End)) && !DateOnly(b.Start).After(DateOnly(a.End))
}

type fieldIssues map[string]string

func (f fieldIssues) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// ValidateCreate checks a new request against today and the owner's active
// periods. It returns the inclusive day count, or a validation error keyed
// by payload field.
func ValidateCreate(input CreateInput, today time.Time, active []Period) (int, error) {
	issues := fieldIssues{}

	switch {
	case input.LeaveType == "":
		issues.add("leave_type", "Please select a leave type.")
	case !input.LeaveType.Valid():
		issues.add("leave_type", "Please select a valid leave type.")
	}
	validateReason(issues, input.Reason)

	if input.StartDate.IsZero() {
		issues.add("start_date", "Start date is required.")
	}
	if input.EndDate.IsZero() {
		issues.add("end_date", "End date is required.")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return 0, apperror.Validation(issues)
	}

	start, end := DateOnly(input.StartDate), DateOnly(input.EndDate)
	if start.Before(DateOnly(today)) {
		issues.add("start_date", "Start date cannot be in the past.")
	}
	days, err := CalculateDays(start, end)
	if err != nil {
		issues.add("end_date", "End date must be on or after the start date.")
		return 0, apperror.Validation(issues)
	}

	if days > MaxCappedDays && !input.LeaveType.Uncapped() {
		issues.add("end_date", "Leave duration cannot exceed 30 days for this leave type.")
	}
	requested := Period{Start: start, End: end}
	for _, period := range active {
		if Overlaps(requested, period) {
			issues.add("start_date", "You already have a leave request for these dates.")
			break
		}
	}

	if len(issues) > 0 {
		return 0, apperror.Validation(issues)
	}
	return days, nil
}

func validateReason(issues fieldIssues, reason string) {
	length := utf8.RuneCountInString(strings.TrimSpace(reason))
	switch {
	case length == 0:
		issues.add("reason", "Please provide a reason for your leave.")
	case length < MinReasonLength:
		issues.add("reason", "Reason must be at least 10 characters long.")
	case length > MaxReasonLength:
		issues.add("reason", "Reason cannot exceed 500 characters.")
	}
}
