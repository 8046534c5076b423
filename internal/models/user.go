package models

// Role values seeded at startup.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Role is an entry of the static role lookup table.
type Role struct {
	Base
	Value string `gorm:"uniqueIndex;not null" json:"value"`
}

// User represents the user model in the database
type User struct {
	Base
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Roles    []Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles"`
}

// RoleValues returns the values of the user's roles in order.
func (u *User) RoleValues() []string {
	values := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		values = append(values, r.Value)
	}
	return values
}

// HasRole reports whether the user holds a role with the given value.
func (u *User) HasRole(value string) bool {
	for _, r := range u.Roles {
		if r.Value == value {
			return true
		}
	}
	return false
}
