// Package policy holds the admin/supervisor decision table evaluated before
// mutating routes.
package policy

import "decaptrack/internal/models"

type Action string

const (
	ActionManageMachines Action = "manage_machines"
	ActionManageUsers    Action = "manage_users"
	ActionViewAuditTrail Action = "view_audit_trail"
	ActionCreateOperation Action = "create_operation"
	ActionReportIncident  Action = "report_incident"
)

var adminOnly = map[Action]bool{
	ActionManageMachines: true,
	ActionManageUsers:    true,
	ActionViewAuditTrail: true,
}

// Allowed reports whether role may perform action. Read-only routes are not
// gated here; they are open to every authenticated caller.
func Allowed(role models.Role, action Action) bool {
	if adminOnly[action] {
		return role == models.RoleAdmin
	}
	return role == models.RoleAdmin || role == models.RoleSupervisor
}

// CanModifyOperation allows the original creator and admins.
func CanModifyOperation(role models.Role, actorID, creatorID int) bool {
	return role == models.RoleAdmin || actorID == creatorID
}
