package leave

import (
	"strings"
	"time"
	"unicode/utf8"

	"leavemgmt/internal/platform/apperror"
)

const alreadyProcessed = "This leave request has already been processed"

// ValidateDecision checks the decision payload on its own, before the
// record is loaded.
func ValidateDecision(input DecideInput) error {
	issues := fieldIssues{}
	switch {
	case input.Status == "":
		issues.add("status", "Please select an action (approve or reject).")
	case input.Status != StatusApproved && input.Status != StatusRejected:
		issues.add("status", "Invalid status. Please select approve or reject.")
	}
	if input.AdminComments != nil && utf8.RuneCountInString(*input.AdminComments) > MaxCommentLength {
		issues.add("admin_comments", "Comments cannot exceed 500 characters.")
	}
	if len(issues) > 0 {
		return apperror.Validation(issues)
	}
	return nil
}

// Decide moves a pending leave to approved or rejected. Decided leaves are
// terminal and any further decision fails with an invalid state error.
func Decide(l *Leave, adminID string, input DecideInput, now time.Time) error {
	if err := ValidateDecision(input); err != nil {
		return err
	}
	if !l.Pending() {
		return apperror.InvalidState(alreadyProcessed)
	}

	approvedAt := now.UTC()
	approver := adminID
	l.Status = input.Status
	l.ApprovedBy = &approver
	l.ApprovedAt = &approvedAt
	l.AdminComments = nil
	if input.AdminComments != nil {
		if comments := strings.TrimSpace(*input.AdminComments); comments != "" {
			l.AdminComments = &comments
		}
	}
	l.UpdatedAt = approvedAt
	return nil
}
