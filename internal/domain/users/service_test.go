package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/platform/apperror"
)

type fakeStore struct {
	listFn   func(filter listing.Filter, page listing.Page) (ListResult, error)
	getFn    func(id string) (User, error)
	createFn func(u NewUser) (User, error)
}

func (f *fakeStore) List(_ context.Context, filter listing.Filter, page listing.Page) (ListResult, error) {
	return f.listFn(filter, page)
}

func (f *fakeStore) Get(_ context.Context, id string) (User, error) {
	return f.getFn(id)
}

func (f *fakeStore) Create(_ context.Context, u NewUser) (User, error) {
	return f.createFn(u)
}

func (f *fakeStore) FindCredentials(context.Context, string) (auth.Credentials, error) {
	return auth.Credentials{}, auth.ErrCredentialsNotFound
}

type fakeSummarizer struct {
	counts leave.OwnerCounts
	recent []leave.Leave
	err    error
}

func (f *fakeSummarizer) OwnerSummary(context.Context, string) (leave.OwnerCounts, []leave.Leave, error) {
	return f.counts, f.recent, f.err
}

const (
	adminID = "0d6e4c1a-1111-4111-8111-000000000001"
	aliceID = "0d6e4c1a-1111-4111-8111-000000000002"
	bobID   = "0d6e4c1a-1111-4111-8111-000000000003"
)

var (
	admin = policy.Actor{ID: adminID, Role: auth.RoleAdmin}
	alice = policy.Actor{ID: aliceID, Role: auth.RoleEmployee}
)

func newTestService(store StoreAPI, summarizer LeaveSummarizer) *Service {
	svc := NewService(store, summarizer, policy.MustNew(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 4, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestListRequiresAdmin(t *testing.T) {
	var seen listing.Filter
	store := &fakeStore{listFn: func(filter listing.Filter, _ listing.Page) (ListResult, error) {
		seen = filter
		return ListResult{Users: []User{{ID: aliceID}}, Total: 11}, nil
	}}
	svc := newTestService(store, &fakeSummarizer{})

	_, err := svc.List(context.Background(), alice, listing.Filter{}, listing.NewPage(1))
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))

	page, err := svc.List(context.Background(), admin, listing.Filter{Role: auth.RoleEmployee, Search: "ali", Status: "pending"}, listing.NewPage(1))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEmployee, seen.Role)
	assert.Equal(t, "ali", seen.Search)
	assert.Empty(t, seen.Status)
	assert.Equal(t, 2, page.Pagination.LastPage)

	_, err = svc.List(context.Background(), admin, listing.Filter{Role: "manager"}, listing.NewPage(1))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGetProfile(t *testing.T) {
	store := &fakeStore{getFn: func(id string) (User, error) {
		if id == aliceID {
			return User{ID: aliceID, Name: "Alice", Role: auth.RoleEmployee}, nil
		}
		return User{}, ErrNotFound
	}}
	summarizer := &fakeSummarizer{counts: leave.OwnerCounts{TotalLeaves: 2, PendingLeaves: 1, ApprovedLeaves: 1}}
	svc := newTestService(store, summarizer)
	ctx := context.Background()

	profile, err := svc.Get(ctx, alice, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.User.Name)
	assert.Equal(t, 2, profile.LeaveStatistics.TotalLeaves)
	assert.NotNil(t, profile.RecentLeaves)

	_, err = svc.Get(ctx, admin, aliceID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, alice, bobID)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))

	_, err = svc.Get(ctx, admin, bobID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Get(ctx, admin, "abc")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func validRegistration() RegisterInput {
	joined := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	department := "Engineering"
	return RegisterInput{
		Name:                 "Jane Doe",
		Email:                " Jane@Example.com ",
		Password:             "password123",
		PasswordConfirmation: "password123",
		Department:           &department,
		EmployeeID:           "EMP-042",
		JoiningDate:          &joined,
	}
}

func TestRegisterCreatesEmployee(t *testing.T) {
	var inserted NewUser
	store := &fakeStore{createFn: func(u NewUser) (User, error) {
		inserted = u
		return User{ID: aliceID, Name: u.Name, Email: u.Email, Role: u.Role, EmployeeID: u.EmployeeID}, nil
	}}
	svc := newTestService(store, &fakeSummarizer{})

	created, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEmployee, created.Role)
	assert.Equal(t, "jane@example.com", inserted.Email)
	assert.Equal(t, auth.RoleEmployee, inserted.Role)
	assert.NoError(t, auth.CheckPassword(inserted.PasswordHash, "password123"))
	require.NotNil(t, inserted.JoiningDate)
}

func TestRegisterValidation(t *testing.T) {
	store := &fakeStore{createFn: func(NewUser) (User, error) {
		t.Fatal("store must not be called for invalid input")
		return User{}, nil
	}}
	svc := newTestService(store, &fakeSummarizer{})
	future := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"short name", func(in *RegisterInput) { in.Name = "J" }, "name"},
		{"bad email", func(in *RegisterInput) { in.Email = "jane.example.com" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password, in.PasswordConfirmation = "pa55", "pa55" }, "password"},
		{"letters only", func(in *RegisterInput) { in.Password, in.PasswordConfirmation = "passwordonly", "passwordonly" }, "password"},
		{"digits only", func(in *RegisterInput) { in.Password, in.PasswordConfirmation = "12345678", "12345678" }, "password"},
		{"confirmation mismatch", func(in *RegisterInput) { in.PasswordConfirmation = "password124" }, "password"},
		{"missing employee id", func(in *RegisterInput) { in.EmployeeID = "  " }, "employee_id"},
		{"future joining date", func(in *RegisterInput) { in.JoiningDate = &future }, "joining_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration()
			tt.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(&fakeStore{createFn: func(NewUser) (User, error) { return User{}, ErrDuplicateEmail }}, &fakeSummarizer{})
	_, err := svc.Register(ctx, validRegistration())
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "This email address is already registered.", appErr.Fields["email"])

	svc = newTestService(&fakeStore{createFn: func(NewUser) (User, error) { return User{}, ErrDuplicateEmployeeID }}, &fakeSummarizer{})
	_, err = svc.Register(ctx, validRegistration())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "This employee ID is already taken.", appErr.Fields["employee_id"])

	svc = newTestService(&fakeStore{createFn: func(NewUser) (User, error) { return User{}, errors.New("db down") }}, &fakeSummarizer{})
	_, err = svc.Register(ctx, validRegistration())
	assert.True(t, apperror.Is(err, apperror.KindUnexpected))
}

func TestCurrent(t *testing.T) {
	store := &fakeStore{getFn: func(id string) (User, error) {
		if id == aliceID {
			return User{ID: aliceID, Name: "Alice"}, nil
		}
		return User{}, ErrNotFound
	}}
	svc := newTestService(store, &fakeSummarizer{})

	u, err := svc.Current(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.Current(context.Background(), policy.Actor{ID: bobID, Role: auth.RoleEmployee})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
