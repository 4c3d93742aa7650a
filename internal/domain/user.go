package domain

// Role is the access level of a console user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// User is one of the two fixed console identities. It is never persisted.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
}

// IsAdmin reports whether the user may mutate inquiries and config.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AdminUser returns the admin identity for the given login email.
func AdminUser(email string) *User {
	return &User{ID: "2", Name: "Admin User", Role: RoleAdmin, Email: email}
}

// ViewerUser returns the viewer identity for the given login email.
func ViewerUser(email string) *User {
	return &User{ID: "1", Name: "Viewer User", Role: RoleViewer, Email: email}
}
