package models

// Client represents a row of the clients table.
type Client struct {
	ClientID  string `db:"client_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Cedula    string `db:"cedula"` // unique
	Phone     string `db:"phone"`
	Address   string `db:"address"`
	Email     string `db:"email"`
	Notes     string `db:"notes"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}
