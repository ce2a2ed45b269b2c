package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the issuer profile kept per user, used to prefill the company
// step of the quote wizard. The user record itself lives in the hosted auth
// backend; only the billing profile is stored here.
type Profile struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	Street     string
	City       string
	State      string
	Zip        string
	Country    string
	TaxID      string
	IsTaxPayer bool
	TaxNumber  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CompanyInfo projects the profile into the draft's issuer snapshot.
func (p *Profile) CompanyInfo() CompanyInfo {
	return CompanyInfo{
		Email:      p.Email,
		Name:       p.Name,
		Street:     p.Street,
		City:       p.City,
		State:      p.State,
		Zip:        p.Zip,
		Country:    p.Country,
		TaxID:      p.TaxID,
		IsTaxPayer: p.IsTaxPayer,
		TaxNumber:  p.TaxNumber,
	}
}
