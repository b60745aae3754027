package rbac

const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleAdmin     = "admin"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	RoleStudent: {
		"quiz:view",
		"material:view",
		"subject:view",
		"professors:list",
		"attempt:submit",
		"attempt:view-own",
		"progress:view-own",
		"progress:write-own",
	},
	RoleProfessor: {
		"quiz:*",
		"material:*",
		"subject:view",
		"professors:list",
		"attempt:view-all",
		"stats:view",
		"students:list",
		"progress:view-all",
	},
	RoleAdmin: {
		"*", // everything
	},
}

// Privileged reports whether role may see hidden content and answer keys.
func Privileged(role string) bool {
	return role == RoleProfessor || role == RoleAdmin
}
