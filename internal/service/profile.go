// This file implements the issuer profile service.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/repository"
)

// ProfileService manages issuer profiles, used to prefill the company step
// of the quote wizard.
type ProfileService interface {
	// Fetch returns the user's profile, or nil without an error when the
	// user has not filled one in yet.
	Fetch(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Save creates or replaces the user's profile.
	Save(ctx context.Context, profile domain.Profile) (*domain.Profile, error)
}

type profileService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(queries *repository.Queries, logger *slog.Logger) ProfileService {
	return &profileService{
		queries: queries,
		logger:  logger,
	}
}

func (s *profileService) Fetch(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const op = "profile.fetch"

	row, err := s.queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Internal(err, op, "failed to fetch profile")
	}

	profile := rowToProfile(row)
	return &profile, nil
}

func (s *profileService) Save(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	const op = "profile.save"

	if profile.Email == "" {
		return nil, domain.Invalid(op, "email is required")
	}

	row, err := s.queries.UpsertProfile(ctx, repository.UpsertProfileParams{
		UserID:     profile.UserID,
		Email:      profile.Email,
		Name:       profile.Name,
		Street:     profile.Street,
		City:       profile.City,
		State:      profile.State,
		Zip:        profile.Zip,
		Country:    profile.Country,
		TaxID:      profile.TaxID,
		IsTaxPayer: profile.IsTaxPayer,
		TaxNumber:  profile.TaxNumber,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save profile")
	}

	s.logger.Info("profile saved", "user_id", profile.UserID)

	saved := rowToProfile(row)
	return &saved, nil
}

func rowToProfile(row repository.Profile) domain.Profile {
	return domain.Profile{
		UserID:     row.UserID,
		Email:      row.Email,
		Name:       row.Name,
		Street:     row.Street,
		City:       row.City,
		State:      row.State,
		Zip:        row.Zip,
		Country:    row.Country,
		TaxID:      row.TaxID,
		IsTaxPayer: row.IsTaxPayer,
		TaxNumber:  row.TaxNumber,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
