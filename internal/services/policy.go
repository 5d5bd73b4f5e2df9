package services

// Role is the actor's role as issued by the external account system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleTenant Role = "tenant"
)

// Action is a capability an actor may or may not hold on inquiries.
type Action string

const (
	ActionList    Action = "inquiry:list"
	ActionView    Action = "inquiry:view"
	ActionEdit    Action = "inquiry:edit"
	ActionApprove Action = "inquiry:approve"
	ActionDelete  Action = "inquiry:delete"
	ActionRestore Action = "inquiry:restore"
)

// policy maps each staff action to the roles allowed to perform it.
// Submission is public and intentionally absent. Restore uses the same role
// set as delete; recovery is a staff operation like deletion itself.
var policy = map[Action]map[Role]bool{
	ActionList:    {RoleAdmin: true, RoleSeller: true},
	ActionView:    {RoleAdmin: true, RoleSeller: true},
	ActionEdit:    {RoleAdmin: true, RoleSeller: true},
	ActionApprove: {RoleAdmin: true, RoleSeller: true},
	ActionDelete:  {RoleAdmin: true, RoleSeller: true},
	ActionRestore: {RoleAdmin: true, RoleSeller: true},
}

// Authorize reports whether the role holds the capability for the action.
// It is invoked uniformly by the orchestrator before any mutation.
func Authorize(role Role, action Action) bool {
	allowed, ok := policy[action]
	if !ok {
		return false
	}
	return allowed[role]
}
