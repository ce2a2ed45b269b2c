// This file implements the issuer profile endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/service"
)

// ProfileHandler handles the issuer profile.
type ProfileHandler struct {
	profiles service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// profilePayload is the JSON body and response shape of a profile.
type profilePayload struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	TaxID      string `json:"tax_id"`
	IsTaxPayer bool   `json:"is_tax_payer"`
	TaxNumber  string `json:"tax_number"`
}

// Get handles GET /api/profile. A user who never saved a profile gets an
// empty object, not a 404; the wizard treats the profile as optional.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	profile, err := h.profiles.Fetch(r.Context(), identity.UserID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}
	if profile == nil {
		JSON(w, http.StatusOK, profilePayload{Email: identity.Email})
		return
	}

	JSON(w, http.StatusOK, profilePayload{
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
}

// Save handles PUT /api/profile.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	var payload profilePayload
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	profile, err := h.profiles.Save(r.Context(), domain.Profile{
		UserID:     identity.UserID,
		Email:      payload.Email,
		Name:       payload.Name,
		Street:     payload.Street,
		City:       payload.City,
		State:      payload.State,
		Zip:        payload.Zip,
		Country:    payload.Country,
		TaxID:      payload.TaxID,
		IsTaxPayer: payload.IsTaxPayer,
		TaxNumber:  payload.TaxNumber,
	})
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, profilePayload{
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
}
