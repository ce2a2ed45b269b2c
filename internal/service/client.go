// Package service contains the business logic layer.
//
// This file implements the client service for managing a user's clients.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/repository"
)

// pgUniqueViolation is the Postgres error code for a unique index violation.
const pgUniqueViolation = "23505"

// ClientService defines the interface for client-related operations.
type ClientService interface {
	// Create creates a new client.
	// Returns domain.ECONFLICT if the owner already has a client with the
	// same company name (case-insensitive).
	Create(ctx context.Context, params domain.CreateClientParams) (*domain.Client, error)

	// GetByID retrieves a client by ID and user ID (for authorization).
	// Returns domain.ENOTFOUND if the client does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Client, error)

	// List retrieves a paginated list of clients for a user.
	List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Client, int64, error)

	// Update updates an existing client.
	Update(ctx context.Context, params domain.UpdateClientParams) (*domain.Client, error)

	// Delete deletes a client. Returns domain.EINVALID when quotes still
	// reference it.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// FindOrCreateByCompanyName resolves a client by company name
	// (case-insensitive, owner-scoped), creating it when absent. Used by
	// the quote save flow.
	FindOrCreateByCompanyName(ctx context.Context, userID uuid.UUID, form domain.ClientForm) (*domain.Client, error)
}

type clientService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(queries *repository.Queries, logger *slog.Logger) ClientService {
	return &clientService{
		queries: queries,
		logger:  logger,
	}
}

func (s *clientService) Create(ctx context.Context, params domain.CreateClientParams) (*domain.Client, error) {
	const op = "client.create"

	if err := validateCompanyName(op, params.CompanyName); err != nil {
		return nil, err
	}

	// Check for a duplicate up front so the caller gets a specific message
	// instead of a generic save failure.
	_, err := s.queries.FindClientByCompanyName(ctx, repository.FindClientByCompanyNameParams{
		UserID:      params.UserID,
		CompanyName: params.CompanyName,
	})
	if err == nil {
		return nil, domain.Conflict(op, "a client with this company name already exists")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "failed to check for existing client")
	}

	row, err := s.queries.CreateClient(ctx, repository.CreateClientParams{
		UserID:      params.UserID,
		CompanyName: strings.TrimSpace(params.CompanyName),
		ContactName: domain.ToNullString(params.ContactName),
		Email:       domain.ToNullString(params.Email),
		Phone:       domain.ToNullString(params.Phone),
		Street:      domain.ToNullString(params.Street),
		City:        domain.ToNullString(params.City),
		State:       domain.ToNullString(params.State),
		Zip:         domain.ToNullString(params.Zip),
		Country:     domain.ToNullString(params.Country),
	})
	if err != nil {
		// The unique index can still fire under concurrent creates.
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "a client with this company name already exists")
		}
		return nil, domain.Internal(err, op, "failed to create client")
	}

	client := rowToClient(row)

	s.logger.Info("client created",
		"client_id", client.ID,
		"user_id", params.UserID,
		"company_name", client.CompanyName,
	)

	return &client, nil
}

func (s *clientService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Client, error) {
	const op = "client.get"

	row, err := s.queries.GetClientByIDAndUserID(ctx, repository.GetClientByIDAndUserIDParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "client", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get client")
	}

	client := rowToClient(row)
	return &client, nil
}

func (s *clientService) List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Client, int64, error) {
	const op = "client.list"

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.queries.ListClientsByUserID(ctx, repository.ListClientsByUserIDParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to list clients")
	}

	total, err := s.queries.CountClientsByUserID(ctx, userID)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to count clients")
	}

	clients := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, rowToClient(row))
	}
	return clients, total, nil
}

func (s *clientService) Update(ctx context.Context, params domain.UpdateClientParams) (*domain.Client, error) {
	const op = "client.update"

	if err := validateCompanyName(op, params.CompanyName); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateClient(ctx, repository.UpdateClientParams{
		ID:          params.ID,
		UserID:      params.UserID,
		CompanyName: strings.TrimSpace(params.CompanyName),
		ContactName: domain.ToNullString(params.ContactName),
		Email:       domain.ToNullString(params.Email),
		Phone:       domain.ToNullString(params.Phone),
		Street:      domain.ToNullString(params.Street),
		City:        domain.ToNullString(params.City),
		State:       domain.ToNullString(params.State),
		Zip:         domain.ToNullString(params.Zip),
		Country:     domain.ToNullString(params.Country),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "client", params.ID.String())
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "a client with this company name already exists")
		}
		return nil, domain.Internal(err, op, "failed to update client")
	}

	client := rowToClient(row)
	return &client, nil
}

func (s *clientService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const op = "client.delete"

	count, err := s.queries.CountQuotesByClientID(ctx, repository.CountQuotesByClientIDParams{
		ClientID: id,
		UserID:   userID,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to check client quotes")
	}
	if count > 0 {
		return domain.Invalid(op, "client has quotes and cannot be deleted")
	}

	affected, err := s.queries.DeleteClient(ctx, repository.DeleteClientParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to delete client")
	}
	if affected == 0 {
		return domain.NotFound(op, "client", id.String())
	}

	s.logger.Info("client deleted", "client_id", id, "user_id", userID)
	return nil
}

func (s *clientService) FindOrCreateByCompanyName(ctx context.Context, userID uuid.UUID, form domain.ClientForm) (*domain.Client, error) {
	const op = "client.find_or_create"

	if err := validateCompanyName(op, form.CompanyName); err != nil {
		return nil, err
	}

	row, err := s.queries.FindClientByCompanyName(ctx, repository.FindClientByCompanyNameParams{
		UserID:      userID,
		CompanyName: form.CompanyName,
	})
	if err == nil {
		client := rowToClient(row)
		return &client, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "failed to look up client")
	}

	created, err := s.queries.CreateClient(ctx, repository.CreateClientParams{
		UserID:      userID,
		CompanyName: strings.TrimSpace(form.CompanyName),
		ContactName: domain.ToNullString(form.ContactName),
		Email:       domain.ToNullString(form.Email),
		Phone:       domain.ToNullString(form.Phone),
		Street:      domain.ToNullString(form.Street),
		City:        domain.ToNullString(form.City),
		State:       domain.ToNullString(form.State),
		Zip:         domain.ToNullString(form.Zip),
		Country:     domain.ToNullString(form.Country),
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race; the client exists now, use it.
			row, ferr := s.queries.FindClientByCompanyName(ctx, repository.FindClientByCompanyNameParams{
				UserID:      userID,
				CompanyName: form.CompanyName,
			})
			if ferr == nil {
				client := rowToClient(row)
				return &client, nil
			}
		}
		return nil, domain.Internal(err, op, "failed to create client")
	}

	s.logger.Info("client created implicitly during quote save",
		"client_id", created.ID,
		"user_id", userID,
	)

	client := rowToClient(created)
	return &client, nil
}

func validateCompanyName(op, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invalid(op, "company name is required")
	}
	if len(name) > 255 {
		return domain.Invalid(op, "company name must be 255 characters or less")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func rowToClient(row repository.Client) domain.Client {
	return domain.Client{
		ID:          row.ID,
		UserID:      row.UserID,
		CompanyName: row.CompanyName,
		ContactName: domain.FromNullString(row.ContactName),
		Email:       domain.FromNullString(row.Email),
		Phone:       domain.FromNullString(row.Phone),
		Street:      domain.FromNullString(row.Street),
		City:        domain.FromNullString(row.City),
		State:       domain.FromNullString(row.State),
		Zip:         domain.FromNullString(row.Zip),
		Country:     domain.FromNullString(row.Country),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
