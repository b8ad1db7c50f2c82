// Package policy decides who may do what to leave and user records. A casbin
// role gate runs first, then the ownership and state rules that casbin's
// flat model cannot express.
package policy

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/platform/apperror"
)

type Action string

const (
	LeaveList       Action = "leave.list"
	LeaveView       Action = "leave.view"
	LeaveCreate     Action = "leave.create"
	LeaveDecide     Action = "leave.decide"
	LeaveDelete     Action = "leave.delete"
	LeaveStatistics Action = "leave.statistics"
	UserList        Action = "user.list"
	UserView        Action = "user.view"
)

// Actor is the authenticated caller. Every policy and service call receives
// it explicitly.
type Actor struct {
	ID   string
	Role auth.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == auth.RoleAdmin
}

func ActorFrom(user auth.UserContext) Actor {
	return Actor{ID: user.UserID, Role: user.Role}
}

// Target describes the record an action applies to. OwnerID is the leave
// owner for leave actions and the user id for user actions.
type Target struct {
	OwnerID string
	Pending bool
}

const roleModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

var rolePolicies = [][]string{
	{string(auth.RoleAdmin), string(LeaveList)},
	{string(auth.RoleAdmin), string(LeaveView)},
	{string(auth.RoleAdmin), string(LeaveCreate)},
	{string(auth.RoleAdmin), string(LeaveDecide)},
	{string(auth.RoleAdmin), string(LeaveStatistics)},
	{string(auth.RoleAdmin), string(UserList)},
	{string(auth.RoleAdmin), string(UserView)},
	{string(auth.RoleEmployee), string(LeaveList)},
	{string(auth.RoleEmployee), string(LeaveView)},
	{string(auth.RoleEmployee), string(LeaveCreate)},
	{string(auth.RoleEmployee), string(LeaveDelete)},
	{string(auth.RoleEmployee), string(UserView)},
}

// ownerScoped lists the employee actions that only apply to the actor's own
// records.
var ownerScoped = map[Action]bool{
	LeaveView:   true,
	LeaveDelete: true,
	UserView:    true,
}

var actionNames = map[Action]string{
	LeaveList:       "view leave requests",
	LeaveView:       "view this leave request",
	LeaveCreate:     "create leave requests",
	LeaveDecide:     "update leave status",
	LeaveDelete:     "delete this leave request",
	LeaveStatistics: "view leave statistics",
	UserList:        "view users",
	UserView:        "view this user",
}

type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

func New() (*Policy, error) {
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("seed role policies: %w", err)
	}
	return &Policy{enforcer: enforcer}, nil
}

// MustNew is for tests and wiring code where the static model cannot fail.
func MustNew() *Policy {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

// Allowed reports whether the role gate alone admits the action. Middleware
// uses it to reject requests before any store access.
func (p *Policy) Allowed(role auth.Role, action Action) bool {
	ok, err := p.enforcer.Enforce(string(role), string(action))
	return err == nil && ok
}

// Can returns nil when actor may perform action on target, or an
// authorization error naming only the action. target may be nil for actions
// without a record.
func (p *Policy) Can(actor Actor, action Action, target *Target) error {
	if !actor.Role.Valid() || actor.ID == "" || !p.Allowed(actor.Role, action) {
		return deny(action)
	}
	if actor.IsAdmin() {
		return nil
	}
	if ownerScoped[action] {
		if target == nil || target.OwnerID != actor.ID {
			return deny(action)
		}
	}
	if action == LeaveDelete && !target.Pending {
		return deny(action)
	}
	return nil
}

func deny(action Action) error {
	name, ok := actionNames[action]
	if !ok {
		name = string(action)
	}
	return apperror.Unauthorized(name)
}

// ScopeLeaves returns the listing filter actually applied for actor.
// Employees only ever see their own leaves whatever owner they asked for.
func ScopeLeaves(actor Actor, filter listing.Filter) listing.Filter {
	if !actor.IsAdmin() {
		filter.OwnerID = actor.ID
	}
	filter.Role = ""
	filter.Search = ""
	return filter
}
