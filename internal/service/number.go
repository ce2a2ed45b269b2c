// This file implements sequential quote number allocation.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/repository"
)

// FirstQuoteNumber is issued to owners with no quotes yet. It also serves
// as the draft store's fallback when allocation fails.
const FirstQuoteNumber = "QF-0001"

// QuoteNumberService allocates sequential quote numbers per owner.
type QuoteNumberService interface {
	// NextNumber returns the next number in the QF-%04d sequence, based on
	// the owner's most recently created quote.
	NextNumber(ctx context.Context, userID uuid.UUID) (string, error)
}

type quoteNumberService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewQuoteNumberService creates a new QuoteNumberService.
func NewQuoteNumberService(queries *repository.Queries, logger *slog.Logger) QuoteNumberService {
	return &quoteNumberService{
		queries: queries,
		logger:  logger,
	}
}

func (s *quoteNumberService) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "quote_number.next"

	latest, err := s.queries.LatestQuoteNumberByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FirstQuoteNumber, nil
		}
		return "", domain.Internal(err, op, "failed to load latest quote number")
	}

	next, err := IncrementQuoteNumber(latest)
	if err != nil {
		// A number edited by hand outside the QF scheme restarts the
		// sequence rather than failing the whole reset flow.
		s.logger.Warn("latest quote number not in sequence, restarting",
			"user_id", userID,
			"number", latest,
		)
		return FirstQuoteNumber, nil
	}
	return next, nil
}

// IncrementQuoteNumber parses a QF-prefixed number and returns its
// successor, keeping four-digit zero padding.
func IncrementQuoteNumber(number string) (string, error) {
	_, digits, found := strings.Cut(number, "-")
	if !found {
		return "", fmt.Errorf("quote number %q has no sequence part", number)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", fmt.Errorf("quote number %q has a non-numeric sequence part", number)
	}
	return fmt.Sprintf("QF-%04d", n+1), nil
}
