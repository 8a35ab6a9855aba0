package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/enum"
)

// CatalogStore defines the database methods needed by catalog handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	ListTicketTypes(ctx context.Context) ([]database.ListTicketTypesRow, error)
	ListMeals(ctx context.Context) ([]database.Meal, error)
	ListPaymentMethods(ctx context.Context) ([]database.PaymentMethod, error)
}

// CatalogHandler serves the read-only catalogs an edit session needs.
type CatalogHandler struct {
	store CatalogStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ticket-types", h.ListTicketTypes)
	r.Get("/meals", h.ListMeals)
	r.Get("/payment-methods", h.ListPaymentMethods)
}

// --- Response types ---

type ticketTypeResponse struct {
	ID             uuid.UUID `json:"id"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory"`
	Price          string    `json:"price"`
	AvailableCount int32     `json:"available_count"`
}

type mealResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    string    `json:"price"`
}

// --- Handlers ---

// ListTicketTypes handles GET /ticket-types.
func (h *CatalogHandler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListTicketTypes(r.Context())
	if err != nil {
		log.Printf("ERROR: list ticket types: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]ticketTypeResponse, len(rows))
	for i, tt := range rows {
		resp[i] = ticketTypeResponse{
			ID:             tt.ID,
			Category:       tt.Category,
			Subcategory:    tt.Subcategory,
			Price:          numericToString(tt.Price),
			AvailableCount: tt.AvailableCount,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMeals handles GET /meals.
func (h *CatalogHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.store.ListMeals(r.Context())
	if err != nil {
		log.Printf("ERROR: list meals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]mealResponse, len(meals))
	for i, m := range meals {
		resp[i] = mealResponse{
			ID:       m.ID,
			Name:     m.Name,
			Category: m.Category,
			Price:    numericToString(m.Price),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPaymentMethods handles GET /payment-methods. An empty or unreadable
// table yields the built-in method list so consoles can still take payments.
func (h *CatalogHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.store.ListPaymentMethods(r.Context())
	if err != nil {
		log.Printf("ERROR: list payment methods, serving defaults: %v", err)
		writeJSON(w, http.StatusOK, enum.DefaultPaymentMethods)
		return
	}
	if len(methods) == 0 {
		writeJSON(w, http.StatusOK, enum.DefaultPaymentMethods)
		return
	}

	resp := make([]enum.PaymentMethodOption, len(methods))
	for i, m := range methods {
		resp[i] = enum.PaymentMethodOption{Value: m.Value, Label: m.Label}
	}
	writeJSON(w, http.StatusOK, resp)
}
