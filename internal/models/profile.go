package models

// CompanyProfile represents the single row of company_profile.
type CompanyProfile struct {
	ProfileID    string `db:"profile_id"`
	BusinessName string `db:"business_name"`
	OwnerName    string `db:"owner_name"`
	Cedula       string `db:"cedula"`
	Phone        string `db:"phone"`
	Address      string `db:"address"`
	City         string `db:"city"`
	Email        string `db:"email"`
	BaseCurrency string `db:"base_currency"`
	AuditFields
}
