package domain

// Role is the platform role carried by the identity provider. It gates
// group management privileges.
type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleMentor       Role = "mentor"
	RoleAdmin        Role = "admin"
	RoleOrganization Role = "organization"
)

// CanManageGroups reports whether the role alone grants group management,
// independent of per-group admin membership.
func (r Role) CanManageGroups() bool {
	return r == RoleAdmin || r == RoleMentor || r == RoleOrganization
}

// User is the profile slice of a platform account that messaging needs.
// Accounts themselves are owned by the auth service.
type User struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role   Role   `bson:"role" json:"role"`
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	ID   string
	Role Role
}
