package domain

import (
	"regexp"
	"strings"
)

// Client is a borrower. The cédula (national ID) is unique across clients.
type Client struct {
	ClientID  string `json:"clientID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Cedula    string `json:"cedula"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// FullName returns "FirstName LastName".
func (c Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ClientFilter narrows client listings.
type ClientFilter struct {
	Query    string // matches name or cédula, case-insensitive
	IsActive *bool
	Limit    int
	Offset   int
}

var cedulaPattern = regexp.MustCompile(`^(\d{3})-?(\d{6})-?(\d{4})([A-Z])$`)

// NormalizeCedula validates a Nicaraguan cédula (DDD-DDDDDD-DDDDL) and returns it
// upper-cased with dashes. Dashes and surrounding spaces are optional on input.
func NormalizeCedula(raw string) (string, bool) {
	m := cedulaPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(raw)))
	if m == nil {
		return "", false
	}
	return m[1] + "-" + m[2] + "-" + m[3] + m[4], true
}
