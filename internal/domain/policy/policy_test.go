package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/platform/apperror"
)

var (
	admin = Actor{ID: "admin-1", Role: auth.RoleAdmin}
	alice = Actor{ID: "alice", Role: auth.RoleEmployee}
	bob   = Actor{ID: "bob", Role: auth.RoleEmployee}
)

func TestCan(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	alicePending := &Target{OwnerID: alice.ID, Pending: true}
	aliceDecided := &Target{OwnerID: alice.ID, Pending: false}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		target *Target
		allow  bool
	}{
		{"employee lists", alice, LeaveList, nil, true},
		{"employee creates", alice, LeaveCreate, nil, true},
		{"employee views own", alice, LeaveView, alicePending, true},
		{"employee views other", bob, LeaveView, alicePending, false},
		{"employee deletes own pending", alice, LeaveDelete, alicePending, true},
		{"employee deletes own decided", alice, LeaveDelete, aliceDecided, false},
		{"employee deletes other", bob, LeaveDelete, alicePending, false},
		{"employee decides own", alice, LeaveDecide, alicePending, false},
		{"employee decides other", bob, LeaveDecide, alicePending, false},
		{"employee statistics", alice, LeaveStatistics, nil, false},
		{"employee lists users", alice, UserList, nil, false},
		{"employee views self", alice, UserView, &Target{OwnerID: alice.ID}, true},
		{"employee views other user", alice, UserView, &Target{OwnerID: bob.ID}, false},
		{"employee view without target", alice, LeaveView, nil, false},
		{"admin views any", admin, LeaveView, alicePending, true},
		{"admin decides any", admin, LeaveDecide, alicePending, true},
		{"admin decides decided", admin, LeaveDecide, aliceDecided, true},
		{"admin deletes other pending", admin, LeaveDelete, alicePending, false},
		{"admin deletes own pending", admin, LeaveDelete, &Target{OwnerID: admin.ID, Pending: true}, false},
		{"admin statistics", admin, LeaveStatistics, nil, true},
		{"admin lists users", admin, UserList, nil, true},
		{"admin views user", admin, UserView, &Target{OwnerID: bob.ID}, true},
		{"admin creates", admin, LeaveCreate, nil, true},
		{"unknown role", Actor{ID: "x", Role: "manager"}, LeaveList, nil, false},
		{"missing id", Actor{Role: auth.RoleAdmin}, LeaveList, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Can(tt.actor, tt.action, tt.target)
			if tt.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.Is(err, apperror.KindAuthorization), "got %v", err)
		})
	}
}

func TestDenialNamesOnlyTheAction(t *testing.T) {
	p := MustNew()
	err := p.Can(bob, LeaveView, &Target{OwnerID: alice.ID})
	require.Error(t, err)
	assert.Equal(t, "Unauthorized to view this leave request", err.Error())
	assert.NotContains(t, err.Error(), alice.ID)
}

func TestAllowed(t *testing.T) {
	p := MustNew()
	assert.True(t, p.Allowed(auth.RoleAdmin, LeaveStatistics))
	assert.False(t, p.Allowed(auth.RoleEmployee, LeaveStatistics))
	assert.False(t, p.Allowed(auth.RoleAdmin, LeaveDelete))
	assert.True(t, p.Allowed(auth.RoleEmployee, LeaveDelete))
}

func TestScopeLeaves(t *testing.T) {
	requested := listing.Filter{Status: "pending", OwnerID: bob.ID, Search: "x"}

	scoped := ScopeLeaves(alice, requested)
	assert.Equal(t, alice.ID, scoped.OwnerID)
	assert.Equal(t, "pending", scoped.Status)
	assert.Empty(t, scoped.Search)

	scoped = ScopeLeaves(admin, requested)
	assert.Equal(t, bob.ID, scoped.OwnerID)

	scoped = ScopeLeaves(admin, listing.Filter{})
	assert.Empty(t, scoped.OwnerID)
}
