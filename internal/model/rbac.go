package model

const (
	PermManageCandidates = "manage_candidates"
	PermViewReports      = "view_reports"
	PermManageAttendance = "manage_attendance"
	PermManageDirectory  = "manage_directory"
)

// RolePermissions lists what each role may do beyond its own attendance.
var RolePermissions = map[string][]string{
	RoleHRAdmin: {
		PermManageCandidates,
		PermViewReports,
		PermManageAttendance,
		PermManageDirectory,
	},
	RoleTeamLead: {PermViewReports},
	RoleEmployee: {},
}

func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
