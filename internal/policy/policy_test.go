package policy

import (
	"testing"

	"decaptrack/internal/models"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role   models.Role
		action Action
		want   bool
	}{
		{models.RoleAdmin, ActionManageMachines, true},
		{models.RoleSupervisor, ActionManageMachines, false},
		{models.RoleAdmin, ActionManageUsers, true},
		{models.RoleSupervisor, ActionManageUsers, false},
		{models.RoleAdmin, ActionViewAuditTrail, true},
		{models.RoleSupervisor, ActionViewAuditTrail, false},
		{models.RoleAdmin, ActionCreateOperation, true},
		{models.RoleSupervisor, ActionCreateOperation, true},
		{models.RoleAdmin, ActionReportIncident, true},
		{models.RoleSupervisor, ActionReportIncident, true},
		{"", ActionCreateOperation, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.action); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestCanModifyOperation(t *testing.T) {
	if !CanModifyOperation(models.RoleAdmin, 7, 3) {
		t.Error("admin should modify any operation")
	}
	if !CanModifyOperation(models.RoleSupervisor, 3, 3) {
		t.Error("creator should modify own operation")
	}
	if CanModifyOperation(models.RoleSupervisor, 7, 3) {
		t.Error("non-creator supervisor should be denied")
	}
}
