package users

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/platform/apperror"
)

type Service struct {
	store  StoreAPI
	leaves LeaveSummarizer
	policy *policy.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store StoreAPI, leaves LeaveSummarizer, p *policy.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		store:  store,
		leaves: leaves,
		policy: p,
		logger: logger.Named("users.service"),
		now:    time.Now,
	}
}

func (s *Service) List(ctx context.Context, actor policy.Actor, filter listing.Filter, page listing.Page) (ListPage, error) {
	if err := s.policy.Can(actor, policy.UserList, nil); err != nil {
		return ListPage{}, err
	}
	filter.OwnerID = ""
	filter.Status = ""
	if err := filter.Validate(); err != nil {
		return ListPage{}, err
	}
	result, err := s.store.List(ctx, filter, page)
	if err != nil {
		return ListPage{}, s.unexpected("Failed to fetch users", err)
	}
	return ListPage{Users: result.Users, Pagination: listing.NewPagination(page, result.Total)}, nil
}

// Get returns the user profile with leave counts and the five most recent
// leaves. Employees may only load their own profile.
func (s *Service) Get(ctx context.Context, actor policy.Actor, id string) (Profile, error) {
	if err := s.policy.Can(actor, policy.UserView, &policy.Target{OwnerID: id}); err != nil {
		return Profile{}, err
	}
	if uuid.Validate(id) != nil {
		return Profile{}, apperror.NotFound("User")
	}
	u, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, apperror.NotFound("User")
		}
		return Profile{}, s.unexpected("Failed to fetch user details", err)
	}
	counts, recent, err := s.leaves.OwnerSummary(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}
	if recent == nil {
		recent = []leave.Leave{}
	}
	return Profile{User: u, LeaveStatistics: counts, RecentLeaves: recent}, nil
}

// Current returns the authenticated user's own record.
func (s *Service) Current(ctx context.Context, actor policy.Actor) (User, error) {
	u, err := s.store.Get(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperror.NotFound("User")
		}
		return User{}, s.unexpected("Failed to fetch user details", err)
	}
	return u, nil
}

// Register creates an employee account. Registration never grants the
// admin role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	if input.Department != nil {
		trimmed := strings.TrimSpace(*input.Department)
		input.Department = &trimmed
		if trimmed == "" {
			input.Department = nil
		}
	}
	if err := s.validateRegistration(input); err != nil {
		return User{}, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, s.unexpected("Registration failed", err)
	}
	var joining *time.Time
	if input.JoiningDate != nil {
		day := leave.DateOnly(*input.JoiningDate)
		joining = &day
	}

	created, err := s.store.Create(ctx, NewUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         auth.RoleEmployee,
		Department:   input.Department,
		EmployeeID:   input.EmployeeID,
		JoiningDate:  joining,
	})
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return User{}, apperror.ValidationField("email", "This email address is already registered.")
	case errors.Is(err, ErrDuplicateEmployeeID):
		return User{}, apperror.ValidationField("employee_id", "This employee ID is already taken.")
	case err != nil:
		return User{}, s.unexpected("Registration failed", err)
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID), zap.String("employee_id", created.EmployeeID))
	return created, nil
}

// validateRegistration covers the rules that need more than struct tags:
// password composition, confirmation and the joining date bound.
func (s *Service) validateRegistration(input RegisterInput) error {
	fields := map[string]string{}
	add := func(field, message string) {
		if _, exists := fields[field]; !exists {
			fields[field] = message
		}
	}

	switch n := utf8.RuneCountInString(input.Name); {
	case n == 0:
		add("name", "Full name is required.")
	case n < 2:
		add("name", "Full name must be at least 2 characters.")
	case n > 255:
		add("name", "Full name cannot exceed 255 characters.")
	}

	switch {
	case input.Email == "":
		add("email", "Email address is required.")
	case len(input.Email) > 255 || !strings.Contains(input.Email, "@"):
		add("email", "Please provide a valid email address.")
	}

	switch {
	case input.Password == "":
		add("password", "Password is required.")
	case utf8.RuneCountInString(input.Password) < 8:
		add("password", "Password must be at least 8 characters long.")
	case !hasLetterAndDigit(input.Password):
		add("password", "Password must contain at least one letter and one number.")
	case input.Password != input.PasswordConfirmation:
		add("password", "Password confirmation does not match.")
	}

	if input.Department != nil && utf8.RuneCountInString(*input.Department) > 100 {
		add("department", "Department cannot exceed 100 characters.")
	}

	switch n := utf8.RuneCountInString(input.EmployeeID); {
	case n == 0:
		add("employee_id", "Employee ID is required.")
	case n > 50:
		add("employee_id", "Employee ID cannot exceed 50 characters.")
	}

	if input.JoiningDate != nil && leave.DateOnly(*input.JoiningDate).After(leave.DateOnly(s.now())) {
		add("joining_date", "Joining date cannot be in the future.")
	}

	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func hasLetterAndDigit(value string) bool {
	var letter, digit bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func (s *Service) unexpected(message string, err error) error {
	s.logger.Error(message, zap.Error(err))
	return apperror.Unexpected(message, err)
}
