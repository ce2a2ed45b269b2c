// This file defines the Client domain type: one of a user's customers, the
// party a quote is addressed to.
package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Client represents a customer a quote can be addressed to.
//
// Clients are exclusively owned by the user who created them. Company name
// is unique per owner, case-insensitively; a quote save that references an
// unknown company name implicitly creates the client.
type Client struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Street      string
	City        string
	State       string
	Zip         string
	Country     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateClientParams contains validated parameters for creating a client.
type CreateClientParams struct {
	UserID      uuid.UUID // Owner of the client (from auth context)
	CompanyName string    // Required, unique per owner (case-insensitive)
	ContactName string
	Email       string
	Phone       string
	Street      string
	City        string
	State       string
	Zip         string
	Country     string
}

// UpdateClientParams contains validated parameters for updating a client.
type UpdateClientParams struct {
	ID          uuid.UUID // Client to update
	UserID      uuid.UUID // Owner (for authorization)
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Street      string
	City        string
	State       string
	Zip         string
	Country     string
}

// ToNullString converts a string to sql.NullString.
// Empty strings become NULL.
func ToNullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

// FromNullString converts a sql.NullString back to a plain string.
func FromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
