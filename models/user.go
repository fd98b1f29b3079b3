package models

// Roles understood by the dashboard.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User is a dashboard account. It maps to the `users` table in SQLite.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Role     string `db:"role" json:"role"`
}
