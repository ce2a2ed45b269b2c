// This file implements the client CRUD endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/service"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	clients service.ClientService
	logger  *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clients service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clients: clients,
		logger:  logger,
	}
}

// clientPayload is the JSON body for create and update requests.
type clientPayload struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
}

// clientResponse is the JSON shape of a client.
type clientResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Zip         string    `json:"zip,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Street:      c.Street,
		City:        c.City,
		State:       c.State,
		Zip:         c.Zip,
		Country:     c.Country,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// List handles GET /api/clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	limit, offset := pagination(r)
	clients, total, err := h.clients.List(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	items := make([]clientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, toClientResponse(&clients[i]))
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"clients": items,
		"total":   total,
	})
}

// Get handles GET /api/clients/{id}.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	client, err := h.clients.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, toClientResponse(client))
}

// Create handles POST /api/clients.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	var payload clientPayload
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	client, err := h.clients.Create(r.Context(), domain.CreateClientParams{
		UserID:      identity.UserID,
		CompanyName: payload.CompanyName,
		ContactName: payload.ContactName,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Street:      payload.Street,
		City:        payload.City,
		State:       payload.State,
		Zip:         payload.Zip,
		Country:     payload.Country,
	})
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusCreated, toClientResponse(client))
}

// Update handles PUT /api/clients/{id}.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	var payload clientPayload
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	client, err := h.clients.Update(r.Context(), domain.UpdateClientParams{
		ID:          id,
		UserID:      identity.UserID,
		CompanyName: payload.CompanyName,
		ContactName: payload.ContactName,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Street:      payload.Street,
		City:        payload.City,
		State:       payload.State,
		Zip:         payload.Zip,
		Country:     payload.Country,
	})
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, toClientResponse(client))
}

// Delete handles DELETE /api/clients/{id}.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	if err := h.clients.Delete(r.Context(), id, identity.UserID); err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pagination reads limit and offset query parameters with defaults and a
// hard cap on page size.
func pagination(r *http.Request) (limit, offset int32) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = int32(min(n, maxPageSize))
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = int32(n)
		}
	}
	return limit, offset
}
