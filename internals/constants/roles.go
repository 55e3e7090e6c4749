package constants

// Role global yang dibawa JWT (roles_global claim)
const (
	RoleUser       = "user"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
)

var AllRoles = []string{
	RoleUser,
	RoleInstructor,
	RoleAdmin,
	RoleOwner,
}
