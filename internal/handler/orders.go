package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/enum"
	"github.com/splashpos/backoffice/internal/middleware"
	"github.com/splashpos/backoffice/internal/service"
	"github.com/splashpos/backoffice/internal/ws"
)

// OrderEditor defines the service methods needed by order write handlers.
// Satisfied by *service.OrderEditService; narrow interface for testability.
type OrderEditor interface {
	UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*service.UpdateOrderResult, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) (*service.DeleteOrderResult, error)
}

// OrderReader defines the service methods needed by order read handlers.
// Satisfied by *service.OrderQueryService.
type OrderReader interface {
	ListOrders(ctx context.Context, startDate, endDate time.Time) ([]service.OrderDetail, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*service.OrderDetail, error)
}

// EventPublisher pushes realtime events to connected consoles.
// Satisfied by *ws.Hub.
type EventPublisher interface {
	Publish(topic, eventType string, payload any) error
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	editor OrderEditor
	reader OrderReader
	events EventPublisher
}

// NewOrderHandler creates a new OrderHandler. events may be nil.
func NewOrderHandler(editor OrderEditor, reader OrderReader, events EventPublisher) *OrderHandler {
	return &OrderHandler{editor: editor, reader: reader, events: events}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside an authenticated subrouter: /orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleAdmin))
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// --- Request / Response types ---

type ticketDeltaRequest struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Quantity     int32     `json:"quantity"`
}

type mealDeltaRequest struct {
	MealID   uuid.UUID       `json:"meal_id"`
	Quantity int32           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type paymentEntryRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type updateOrderRequest struct {
	AddedTickets   []ticketDeltaRequest  `json:"addedTickets"`
	RemovedTickets []ticketDeltaRequest  `json:"removedTickets"`
	AddedMeals     []mealDeltaRequest    `json:"addedMeals"`
	RemovedMeals   []mealDeltaRequest    `json:"removedMeals"`
	Payments       []paymentEntryRequest `json:"payments"`
}

type removalResponse struct {
	ID        uuid.UUID `json:"id"`
	Requested int32     `json:"requested"`
	Removed   int32     `json:"removed"`
}

type updateOrderResponse struct {
	Message        string            `json:"message"`
	OrderID        uuid.UUID         `json:"order_id"`
	TotalAmount    string            `json:"total_amount"`
	NetAmount      string            `json:"net_amount"`
	RemovedTickets []removalResponse `json:"removed_tickets"`
	RemovedMeals   []removalResponse `json:"removed_meals"`
}

type deleteOrderResponse struct {
	Message         string    `json:"message"`
	OrderID         uuid.UUID `json:"order_id"`
	TotalAmount     string    `json:"total_amount"`
	CreatedAt       time.Time `json:"created_at"`
	ReleasedTickets int64     `json:"released_tickets"`
}

type ticketLineResponse struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Price        string    `json:"price"`
	Quantity     int32     `json:"quantity"`
}

type mealLineResponse struct {
	MealID   uuid.UUID `json:"meal_id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    string    `json:"price"`
	Quantity int32     `json:"quantity"`
}

type paymentResponse struct {
	ID     uuid.UUID `json:"id"`
	Method string    `json:"method"`
	Amount string    `json:"amount"`
}

type orderResponse struct {
	ID          uuid.UUID            `json:"id"`
	CashierID   uuid.UUID            `json:"cashier_id"`
	Description *string              `json:"description"`
	TotalAmount string               `json:"total_amount"`
	NetAmount   string               `json:"net_amount"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Tickets     []ticketLineResponse `json:"tickets"`
	Meals       []mealLineResponse   `json:"meals"`
	Payments    []paymentResponse    `json:"payments"`
}

// orderListResponse wraps the orders with the date range actually applied.
type orderListResponse struct {
	Orders    []orderResponse `json:"orders"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

type orderEventPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	TotalAmount string    `json:"total_amount"`
	NetAmount   string    `json:"net_amount,omitempty"`
	ChangedBy   uuid.UUID `json:"changed_by"`
}

const dateLayout = "2006-01-02"

// --- Handlers ---

// List handles GET /orders?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD.
// Missing dates default to today.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(dateLayout)

	startStr := r.URL.Query().Get("startDate")
	if startStr == "" {
		startStr = today
	}
	endStr := r.URL.Query().Get("endDate")
	if endStr == "" {
		endStr = startStr
	}

	start, err := time.ParseInLocation(dateLayout, startStr, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid startDate format, use YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid endDate format, use YYYY-MM-DD"})
		return
	}

	orders, err := h.reader.ListOrders(r.Context(), start, end)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, orderListResponse{
		Orders:    resp,
		StartDate: startStr,
		EndDate:   endStr,
	})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	detail, err := h.reader.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(detail))
}

// Update handles PUT /orders/{id}. The body is the edit-session diff plus the
// full replacement payment set.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.editor.UpdateOrder(r.Context(), toServiceUpdate(orderID, req))
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := updateOrderResponse{
		Message:        "order updated",
		OrderID:        result.Order.ID,
		TotalAmount:    numericToString(result.Order.TotalAmount),
		NetAmount:      numericToString(result.Order.NetAmount),
		RemovedTickets: toRemovalResponses(result.RemovedTickets),
		RemovedMeals:   toRemovalResponses(result.RemovedMeals),
	}

	h.publish(ws.EventOrderUpdated, orderEventPayload{
		OrderID:     resp.OrderID,
		TotalAmount: resp.TotalAmount,
		NetAmount:   resp.NetAmount,
		ChangedBy:   claims.UserID,
	})

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	result, err := h.editor.DeleteOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order %s: %v", orderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := deleteOrderResponse{
		Message:         "order deleted",
		OrderID:         result.Order.ID,
		TotalAmount:     numericToString(result.Order.TotalAmount),
		CreatedAt:       result.Order.CreatedAt,
		ReleasedTickets: result.ReleasedTickets,
	}

	h.publish(ws.EventOrderDeleted, orderEventPayload{
		OrderID:     resp.OrderID,
		TotalAmount: resp.TotalAmount,
		ChangedBy:   claims.UserID,
	})

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *OrderHandler) publish(eventType string, payload orderEventPayload) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ws.TopicOrders, eventType, payload); err != nil {
		log.Printf("ERROR: publish %s: %v", eventType, err)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrQuantityTooLarge) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrInvalidPaymentAmount) ||
		errors.Is(err, service.ErrTooManyPayments) ||
		errors.Is(err, service.ErrUnknownTicketType) ||
		errors.Is(err, service.ErrUnknownMeal) ||
		errors.Is(err, service.ErrInvalidDateRange)
}

func toServiceUpdate(orderID uuid.UUID, req updateOrderRequest) service.UpdateOrderRequest {
	out := service.UpdateOrderRequest{
		OrderID:        orderID,
		AddedTickets:   make([]service.TicketDelta, len(req.AddedTickets)),
		RemovedTickets: make([]service.TicketDelta, len(req.RemovedTickets)),
		AddedMeals:     make([]service.MealDelta, len(req.AddedMeals)),
		RemovedMeals:   make([]service.MealDelta, len(req.RemovedMeals)),
		Payments:       make([]service.PaymentEntry, len(req.Payments)),
	}
	for i, t := range req.AddedTickets {
		out.AddedTickets[i] = service.TicketDelta{TicketTypeID: t.TicketTypeID, Quantity: t.Quantity}
	}
	for i, t := range req.RemovedTickets {
		out.RemovedTickets[i] = service.TicketDelta{TicketTypeID: t.TicketTypeID, Quantity: t.Quantity}
	}
	for i, m := range req.AddedMeals {
		out.AddedMeals[i] = service.MealDelta{MealID: m.MealID, Quantity: m.Quantity, Price: m.Price}
	}
	for i, m := range req.RemovedMeals {
		out.RemovedMeals[i] = service.MealDelta{MealID: m.MealID, Quantity: m.Quantity, Price: m.Price}
	}
	for i, p := range req.Payments {
		out.Payments[i] = service.PaymentEntry{Method: p.Method, Amount: p.Amount}
	}
	return out
}

func toRemovalResponses(in []service.RemovalResult) []removalResponse {
	out := make([]removalResponse, len(in))
	for i, r := range in {
		out[i] = removalResponse{ID: r.ID, Requested: r.Requested, Removed: r.Removed}
	}
	return out
}

func toOrderResponse(d *service.OrderDetail) orderResponse {
	resp := orderResponse{
		ID:          d.Order.ID,
		CashierID:   d.Order.CashierID,
		Description: textPtr(d.Order.Description),
		TotalAmount: numericToString(d.Order.TotalAmount),
		NetAmount:   numericToString(d.Order.NetAmount),
		CreatedAt:   d.Order.CreatedAt,
		UpdatedAt:   d.Order.UpdatedAt,
		Tickets:     make([]ticketLineResponse, len(d.Tickets)),
		Meals:       make([]mealLineResponse, len(d.Meals)),
		Payments:    make([]paymentResponse, len(d.Payments)),
	}
	for i, t := range d.Tickets {
		resp.Tickets[i] = ticketLineResponse{
			TicketTypeID: t.TicketTypeID,
			Category:     t.Category,
			Subcategory:  t.Subcategory,
			Price:        numericToString(t.SoldPrice),
			Quantity:     t.Quantity,
		}
	}
	for i, m := range d.Meals {
		resp.Meals[i] = mealLineResponse{
			MealID:   m.MealID,
			Name:     m.Name,
			Category: m.Category,
			Price:    numericToString(m.Price),
			Quantity: m.Quantity,
		}
	}
	for i, p := range d.Payments {
		resp.Payments[i] = toPaymentResponse(p)
	}
	return resp
}

func toPaymentResponse(p database.Payment) paymentResponse {
	return paymentResponse{
		ID:     p.ID,
		Method: p.Method,
		Amount: numericToString(p.Amount),
	}
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
