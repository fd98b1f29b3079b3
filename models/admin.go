package models

// Admin "inherits" from User via embedding; admins may change fleet records.
type Admin struct {
	User
}

// NewAdmin creates an admin model with Role preset to "admin".
func NewAdmin(username string) *Admin {
	return &Admin{User: User{Username: username, Role: RoleAdmin}}
}
