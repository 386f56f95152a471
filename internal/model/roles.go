package model

const (
	RoleStudent   = "STUDENT"
	RoleProfessor = "PROFESSOR"
	RoleAdmin     = "ADMIN"
)

const (
	PermReadCourses    = "READ_COURSES"
	PermJoinTeam       = "JOIN_TEAM"
	PermCreateTeam     = "CREATE_TEAM"
	PermManageCourses  = "MANAGE_COURSES"
	PermManageProjects = "MANAGE_PROJECTS"
	PermManageTeams    = "MANAGE_TEAMS"
	PermViewReports    = "VIEW_REPORTS"
	PermManageUsers    = "MANAGE_USERS"
)

// DefaultRolePermissions seeds role_permissions and backs the memory store.
var DefaultRolePermissions = map[string][]string{
	RoleStudent: {PermReadCourses, PermJoinTeam, PermCreateTeam},
	RoleProfessor: {
		PermReadCourses, PermManageCourses, PermManageProjects, PermManageTeams, PermViewReports,
	},
	RoleAdmin: {
		PermReadCourses, PermManageCourses, PermManageProjects, PermManageTeams, PermViewReports, PermManageUsers,
	},
}

func IsValidRole(role string) bool {
	_, ok := DefaultRolePermissions[role]
	return ok
}
