package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Quote is the database row for the quotes table. Line items live in a
// JSONB column and are decoded into typed items at the service boundary.
type Quote struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Status      string
	Items       pqtype.NullRawMessage
	Subtotal    float64
	TaxTotal    float64
	Total       float64
	TaxRate     float64
	TaxIncluded bool
	Notes       string
	IssueDate   time.Time
	DueDate     time.Time
	ValidUntil  sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const quoteColumns = `id, user_id, client_id, number, status, items,
	subtotal, tax_total, total, tax_rate, tax_included, notes,
	issue_date, due_date, valid_until, created_at, updated_at`

func scanQuote(row interface{ Scan(...interface{}) error }) (Quote, error) {
	var qt Quote
	err := row.Scan(
		&qt.ID,
		&qt.UserID,
		&qt.ClientID,
		&qt.Number,
		&qt.Status,
		&qt.Items,
		&qt.Subtotal,
		&qt.TaxTotal,
		&qt.Total,
		&qt.TaxRate,
		&qt.TaxIncluded,
		&qt.Notes,
		&qt.IssueDate,
		&qt.DueDate,
		&qt.ValidUntil,
		&qt.CreatedAt,
		&qt.UpdatedAt,
	)
	return qt, err
}

const createQuote = `
INSERT INTO quotes (
	user_id, client_id, number, status, items,
	subtotal, tax_total, total, tax_rate, tax_included,
	notes, issue_date, due_date, valid_until
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + quoteColumns

type CreateQuoteParams struct {
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Status      string
	Items       pqtype.NullRawMessage
	Subtotal    float64
	TaxTotal    float64
	Total       float64
	TaxRate     float64
	TaxIncluded bool
	Notes       string
	IssueDate   time.Time
	DueDate     time.Time
	ValidUntil  sql.NullTime
}

func (q *Queries) CreateQuote(ctx context.Context, arg CreateQuoteParams) (Quote, error) {
	row := q.db.QueryRowContext(ctx, createQuote,
		arg.UserID,
		arg.ClientID,
		arg.Number,
		arg.Status,
		arg.Items,
		arg.Subtotal,
		arg.TaxTotal,
		arg.Total,
		arg.TaxRate,
		arg.TaxIncluded,
		arg.Notes,
		arg.IssueDate,
		arg.DueDate,
		arg.ValidUntil,
	)
	return scanQuote(row)
}

const updateQuote = `
UPDATE quotes
SET client_id = $3,
	number = $4,
	status = $5,
	items = $6,
	subtotal = $7,
	tax_total = $8,
	total = $9,
	tax_rate = $10,
	tax_included = $11,
	notes = $12,
	issue_date = $13,
	due_date = $14,
	valid_until = $15,
	updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING ` + quoteColumns

type UpdateQuoteParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Status      string
	Items       pqtype.NullRawMessage
	Subtotal    float64
	TaxTotal    float64
	Total       float64
	TaxRate     float64
	TaxIncluded bool
	Notes       string
	IssueDate   time.Time
	DueDate     time.Time
	ValidUntil  sql.NullTime
}

func (q *Queries) UpdateQuote(ctx context.Context, arg UpdateQuoteParams) (Quote, error) {
	row := q.db.QueryRowContext(ctx, updateQuote,
		arg.ID,
		arg.UserID,
		arg.ClientID,
		arg.Number,
		arg.Status,
		arg.Items,
		arg.Subtotal,
		arg.TaxTotal,
		arg.Total,
		arg.TaxRate,
		arg.TaxIncluded,
		arg.Notes,
		arg.IssueDate,
		arg.DueDate,
		arg.ValidUntil,
	)
	return scanQuote(row)
}

const getQuoteByIDAndUserID = `
SELECT ` + quoteColumns + `
FROM quotes
WHERE id = $1 AND user_id = $2`

type GetQuoteByIDAndUserIDParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetQuoteByIDAndUserID(ctx context.Context, arg GetQuoteByIDAndUserIDParams) (Quote, error) {
	row := q.db.QueryRowContext(ctx, getQuoteByIDAndUserID, arg.ID, arg.UserID)
	return scanQuote(row)
}

const listQuotesWithClientByUserID = `
SELECT q.id, q.number, q.status, q.total, q.valid_until, q.created_at, q.updated_at,
	c.id, c.company_name, c.email
FROM quotes q
JOIN clients c ON c.id = q.client_id
WHERE q.user_id = $1
ORDER BY q.created_at DESC`

type ListQuotesWithClientByUserIDRow struct {
	ID                uuid.UUID
	Number            string
	Status            string
	Total             float64
	ValidUntil        sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ClientID          uuid.UUID
	ClientCompanyName string
	ClientEmail       sql.NullString
}

func (q *Queries) ListQuotesWithClientByUserID(ctx context.Context, userID uuid.UUID) ([]ListQuotesWithClientByUserIDRow, error) {
	rows, err := q.db.QueryContext(ctx, listQuotesWithClientByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListQuotesWithClientByUserIDRow
	for rows.Next() {
		var r ListQuotesWithClientByUserIDRow
		if err := rows.Scan(
			&r.ID,
			&r.Number,
			&r.Status,
			&r.Total,
			&r.ValidUntil,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.ClientID,
			&r.ClientCompanyName,
			&r.ClientEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const latestQuoteNumberByUserID = `
SELECT number
FROM quotes
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`

// LatestQuoteNumberByUserID returns the number of the owner's most recently
// created quote. Returns sql.ErrNoRows when the owner has none.
func (q *Queries) LatestQuoteNumberByUserID(ctx context.Context, userID uuid.UUID) (string, error) {
	var number string
	err := q.db.QueryRowContext(ctx, latestQuoteNumberByUserID, userID).Scan(&number)
	return number, err
}

const quoteStatsByUserID = `
SELECT status, COUNT(*), COALESCE(SUM(total), 0)
FROM quotes
WHERE user_id = $1
GROUP BY status`

type QuoteStatsByUserIDRow struct {
	Status string
	Count  int64
	Amount float64
}

func (q *Queries) QuoteStatsByUserID(ctx context.Context, userID uuid.UUID) ([]QuoteStatsByUserIDRow, error) {
	rows, err := q.db.QueryContext(ctx, quoteStatsByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []QuoteStatsByUserIDRow
	for rows.Next() {
		var r QuoteStatsByUserIDRow
		if err := rows.Scan(&r.Status, &r.Count, &r.Amount); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
