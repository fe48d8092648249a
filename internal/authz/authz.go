package authz

import (
	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal"
)

// Role is a tenant-scoped user role. Every user carries exactly one.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleFinance  Role = "FINANCE"
	RoleAdmin    Role = "ADMIN"
)

// Roles lists every declared role, in escalation order.
var Roles = []Role{RoleEmployee, RoleManager, RoleFinance, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// Action is something a user can attempt against the system. Ownership-scoped
// actions (create/edit/delete/submit) additionally require an instance check.
type Action string

const (
	ActionCreate           Action = "create"
	ActionEditDraft        Action = "edit_draft"
	ActionDeleteDraft      Action = "delete_draft"
	ActionSubmit           Action = "submit"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionReimburse        Action = "reimburse"
	ActionManageUsers      Action = "manage_users"
	ActionManageCategories Action = "manage_categories"
)

// Actions lists every declared action.
var Actions = []Action{
	ActionCreate, ActionEditDraft, ActionDeleteDraft, ActionSubmit,
	ActionApprove, ActionReject, ActionReimburse,
	ActionManageUsers, ActionManageCategories,
}

// matrix is the role/action permission table. Keeping it as literal data makes
// the policy reviewable in one place instead of scattered across handlers.
var matrix = map[Action]map[Role]bool{
	ActionCreate:           {RoleEmployee: true, RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionEditDraft:        {RoleEmployee: true, RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionDeleteDraft:      {RoleEmployee: true, RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionSubmit:           {RoleEmployee: true, RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionApprove:          {RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionReject:           {RoleManager: true, RoleFinance: true, RoleAdmin: true},
	ActionReimburse:        {RoleFinance: true, RoleAdmin: true},
	ActionManageUsers:      {RoleAdmin: true},
	ActionManageCategories: {RoleAdmin: true},
}

// IsAllowed reports whether the role may perform the action at all, independent
// of any particular expense. Unknown roles and actions are denied.
func IsAllowed(role Role, action Action) bool {
	return matrix[action][role]
}

// Actor is the authenticated identity performing an action.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// ownershipActions require the actor to own the target expense.
var ownershipActions = map[Action]bool{
	ActionEditDraft:   true,
	ActionDeleteDraft: true,
	ActionSubmit:      true,
}

// decisionActions may never be performed against the actor's own expense.
var decisionActions = map[Action]bool{
	ActionApprove:   true,
	ActionReject:    true,
	ActionReimburse: true,
}

// Authorize applies the role table first, then the per-instance ownership
// rules against the expense owner. A zero ownerID skips the instance layer
// (used for collection-level actions such as create or manage_categories).
func Authorize(actor Actor, action Action, ownerID uuid.UUID) error {
	if !IsAllowed(actor.Role, action) {
		return internal.NewAuthorizationError(string(actor.Role), string(action), internal.ErrCodeActionForbidden)
	}

	if ownerID == uuid.Nil {
		return nil
	}

	if ownershipActions[action] && actor.ID != ownerID {
		return internal.NewAuthorizationError(string(actor.Role), string(action), internal.ErrCodeNotExpenseOwner)
	}

	// Self-approval is forbidden even for roles the table permits.
	if decisionActions[action] && actor.ID == ownerID {
		return internal.NewAuthorizationError(string(actor.Role), string(action), internal.ErrCodeSelfApproval)
	}

	return nil
}
