package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Roles lists every assignable role.
var Roles = []Role{RoleAdmin, RoleEditor, RoleViewer}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	Model
	Username     string  `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName    string  `gorm:"size:128" json:"first_name"`
	LastName     string  `gorm:"size:128" json:"last_name"`
	Photo        *string `gorm:"size:512" json:"photo,omitempty"`
	Role         Role    `gorm:"size:16;not null;default:viewer" json:"role"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
}
