package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the database row for the profiles table.
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

const profileColumns = `user_id, email, name, street, city, state, zip,
	country, tax_id, is_tax_payer, tax_number, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID,
		&p.Email,
		&p.Name,
		&p.Street,
		&p.City,
		&p.State,
		&p.Zip,
		&p.Country,
		&p.TaxID,
		&p.IsTaxPayer,
		&p.TaxNumber,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const getProfileByUserID = `
SELECT ` + profileColumns + `
FROM profiles
WHERE user_id = $1`

func (q *Queries) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfileByUserID, userID)
	return scanProfile(row)
}

const upsertProfile = `
INSERT INTO profiles (
	user_id, email, name, street, city, state, zip,
	country, tax_id, is_tax_payer, tax_number
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (user_id) DO UPDATE
SET email = EXCLUDED.email,
	name = EXCLUDED.name,
	street = EXCLUDED.street,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	zip = EXCLUDED.zip,
	country = EXCLUDED.country,
	tax_id = EXCLUDED.tax_id,
	is_tax_payer = EXCLUDED.is_tax_payer,
	tax_number = EXCLUDED.tax_number,
	updated_at = NOW()
RETURNING ` + profileColumns

type UpsertProfileParams struct {
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
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, upsertProfile,
		arg.UserID,
		arg.Email,
		arg.Name,
		arg.Street,
		arg.City,
		arg.State,
		arg.Zip,
		arg.Country,
		arg.TaxID,
		arg.IsTaxPayer,
		arg.TaxNumber,
	)
	return scanProfile(row)
}
