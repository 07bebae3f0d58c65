package domain

// DefaultProfileID identifies the single company profile row.
const DefaultProfileID = "default"

// CompanyProfile describes the lending business; it is printed as the lender on contracts.
type CompanyProfile struct {
	ProfileID    string `json:"profileID"`
	BusinessName string `json:"businessName"`
	OwnerName    string `json:"ownerName"`
	Cedula       string `json:"cedula"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Email        string `json:"email"`
	BaseCurrency string `json:"baseCurrency"`
	AuditFields
}
