package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Client is the database row for the clients table.
type Client struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyName string
	ContactName sql.NullString
	Email       sql.NullString
	Phone       sql.NullString
	Street      sql.NullString
	City        sql.NullString
	State       sql.NullString
	Zip         sql.NullString
	Country     sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const clientColumns = `id, user_id, company_name, contact_name, email, phone,
	street, city, state, zip, country, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (Client, error) {
	var c Client
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.CompanyName,
		&c.ContactName,
		&c.Email,
		&c.Phone,
		&c.Street,
		&c.City,
		&c.State,
		&c.Zip,
		&c.Country,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const createClient = `
INSERT INTO clients (
	user_id, company_name, contact_name, email, phone,
	street, city, state, zip, country
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + clientColumns

type CreateClientParams struct {
	UserID      uuid.UUID
	CompanyName string
	ContactName sql.NullString
	Email       sql.NullString
	Phone       sql.NullString
	Street      sql.NullString
	City        sql.NullString
	State       sql.NullString
	Zip         sql.NullString
	Country     sql.NullString
}

func (q *Queries) CreateClient(ctx context.Context, arg CreateClientParams) (Client, error) {
	row := q.db.QueryRowContext(ctx, createClient,
		arg.UserID,
		arg.CompanyName,
		arg.ContactName,
		arg.Email,
		arg.Phone,
		arg.Street,
		arg.City,
		arg.State,
		arg.Zip,
		arg.Country,
	)
	return scanClient(row)
}

const getClientByIDAndUserID = `
SELECT ` + clientColumns + `
FROM clients
WHERE id = $1 AND user_id = $2`

type GetClientByIDAndUserIDParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetClientByIDAndUserID(ctx context.Context, arg GetClientByIDAndUserIDParams) (Client, error) {
	row := q.db.QueryRowContext(ctx, getClientByIDAndUserID, arg.ID, arg.UserID)
	return scanClient(row)
}

const findClientByCompanyName = `
SELECT ` + clientColumns + `
FROM clients
WHERE user_id = $1 AND LOWER(company_name) = LOWER($2)`

type FindClientByCompanyNameParams struct {
	UserID      uuid.UUID
	CompanyName string
}

// FindClientByCompanyName resolves a client by company name, owner-scoped
// and case-insensitive. Used by the quote save flow's find-or-create step.
func (q *Queries) FindClientByCompanyName(ctx context.Context, arg FindClientByCompanyNameParams) (Client, error) {
	row := q.db.QueryRowContext(ctx, findClientByCompanyName, arg.UserID, arg.CompanyName)
	return scanClient(row)
}

const listClientsByUserID = `
SELECT ` + clientColumns + `
FROM clients
WHERE user_id = $1
ORDER BY company_name
LIMIT $2 OFFSET $3`

type ListClientsByUserIDParams struct {
	UserID uuid.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) ListClientsByUserID(ctx context.Context, arg ListClientsByUserIDParams) ([]Client, error) {
	rows, err := q.db.QueryContext(ctx, listClientsByUserID, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

const countClientsByUserID = `
SELECT COUNT(*) FROM clients WHERE user_id = $1`

func (q *Queries) CountClientsByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countClientsByUserID, userID).Scan(&count)
	return count, err
}

const updateClient = `
UPDATE clients
SET company_name = $3,
	contact_name = $4,
	email = $5,
	phone = $6,
	street = $7,
	city = $8,
	state = $9,
	zip = $10,
	country = $11,
	updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING ` + clientColumns

type UpdateClientParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyName string
	ContactName sql.NullString
	Email       sql.NullString
	Phone       sql.NullString
	Street      sql.NullString
	City        sql.NullString
	State       sql.NullString
	Zip         sql.NullString
	Country     sql.NullString
}

func (q *Queries) UpdateClient(ctx context.Context, arg UpdateClientParams) (Client, error) {
	row := q.db.QueryRowContext(ctx, updateClient,
		arg.ID,
		arg.UserID,
		arg.CompanyName,
		arg.ContactName,
		arg.Email,
		arg.Phone,
		arg.Street,
		arg.City,
		arg.State,
		arg.Zip,
		arg.Country,
	)
	return scanClient(row)
}

const deleteClient = `
DELETE FROM clients WHERE id = $1 AND user_id = $2`

type DeleteClientParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteClient(ctx context.Context, arg DeleteClientParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteClient, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countQuotesByClientID = `
SELECT COUNT(*) FROM quotes WHERE client_id = $1 AND user_id = $2`

type CountQuotesByClientIDParams struct {
	ClientID uuid.UUID
	UserID   uuid.UUID
}

func (q *Queries) CountQuotesByClientID(ctx context.Context, arg CountQuotesByClientIDParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countQuotesByClientID, arg.ClientID, arg.UserID).Scan(&count)
	return count, err
}
