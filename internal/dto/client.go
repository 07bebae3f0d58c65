package dto

import (
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to register a borrower.
type CreateClientRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Cedula    string `json:"cedula" binding:"required,cedula"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Address   string `json:"address" binding:"omitempty,max=300"`
	Email     string `json:"email" binding:"omitempty,email"`
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateClientRequest carries the client fields to change; nil fields are left as they are.
type UpdateClientRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	Cedula    *string `json:"cedula" binding:"omitempty,cedula"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Address   *string `json:"address" binding:"omitempty,max=300"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
	IsActive  *bool   `json:"isActive"`
}

// ListClientsParams are the query parameters of the client listing.
type ListClientsParams struct {
	Q      string `form:"q" binding:"omitempty,max=100"`
	Active *bool  `form:"active"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID      string    `json:"clientID"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	FullName      string    `json:"fullName"`
	Cedula        string    `json:"cedula"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// ClientStatementResponse is a client with all their loans and totals.
type ClientStatementResponse struct {
	Client           ClientResponse  `json:"client"`
	Loans            []LoanResponse  `json:"loans"`
	CurrencyCode     string          `json:"currencyCode"`
	TotalBorrowed    decimal.Decimal `json:"totalBorrowed"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO
func ToClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:      c.ClientID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		FullName:      c.FullName(),
		Cedula:        c.Cedula,
		Phone:         c.Phone,
		Address:       c.Address,
		Email:         c.Email,
		Notes:         c.Notes,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListClientsResponse converts clients to their DTOs.
func ToListClientsResponse(clients []domain.Client) ListClientsResponse {
	res := ListClientsResponse{Clients: make([]ClientResponse, len(clients))}
	for i, c := range clients {
		res.Clients[i] = ToClientResponse(c)
	}
	return res
}

// ToClientStatementResponse converts a statement, including every loan's figures.
func ToClientStatementResponse(s domain.ClientStatement) ClientStatementResponse {
	res := ClientStatementResponse{
		Client:           ToClientResponse(s.Client),
		Loans:            make([]LoanResponse, len(s.Loans)),
		CurrencyCode:     s.CurrencyCode,
		TotalBorrowed:    s.TotalBorrowed,
		TotalPaid:        s.TotalPaid,
		TotalOutstanding: s.TotalOutstanding,
	}
	for i, l := range s.Loans {
		res.Loans[i] = ToLoanResponse(l)
	}
	return res
}
