package domain

import "time"

// Group is a named chat group. Admins is always a subset of Members; the
// creator is inserted into both at creation time.
type Group struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	Description         string    `bson:"description,omitempty" json:"description,omitempty"`
	Members             []string  `bson:"members" json:"members"`
	Admins              []string  `bson:"admins" json:"admins"`
	CreatedBy           string    `bson:"created_by" json:"created_by"`
	IsOrganizationGroup bool      `bson:"is_organization_group" json:"is_organization_group"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// HasAdmin reports whether userID is one of the group admins.
func (g *Group) HasAdmin(userID string) bool {
	for _, a := range g.Admins {
		if a == userID {
			return true
		}
	}
	return false
}
