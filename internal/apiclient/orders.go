package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/session"
)

const dateLayout = "2006-01-02"

// --- Wire types ---

type ticketLineJSON struct {
	TicketTypeID uuid.UUID       `json:"ticket_type_id"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

type mealLineJSON struct {
	MealID   uuid.UUID       `json:"meal_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type paymentJSON struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type orderJSON struct {
	ID          uuid.UUID        `json:"id"`
	Description *string          `json:"description"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	NetAmount   decimal.Decimal  `json:"net_amount"`
	CreatedAt   time.Time        `json:"created_at"`
	Tickets     []ticketLineJSON `json:"tickets"`
	Meals       []mealLineJSON   `json:"meals"`
	Payments    []paymentJSON    `json:"payments"`
}

type orderListJSON struct {
	Orders []orderJSON `json:"orders"`
}

type ticketDeltaJSON struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Quantity     int       `json:"quantity"`
}

type mealDeltaJSON struct {
	MealID   uuid.UUID       `json:"meal_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// updateOrderJSON keys match the mutation endpoint's body.
type updateOrderJSON struct {
	AddedTickets   []ticketDeltaJSON `json:"addedTickets"`
	RemovedTickets []ticketDeltaJSON `json:"removedTickets"`
	AddedMeals     []mealDeltaJSON   `json:"addedMeals"`
	RemovedMeals   []mealDeltaJSON   `json:"removedMeals"`
	Payments       []paymentJSON     `json:"payments"`
}

type removalJSON struct {
	ID        uuid.UUID `json:"id"`
	Requested int       `json:"requested"`
	Removed   int       `json:"removed"`
}

type updateOrderResultJSON struct {
	Message        string          `json:"message"`
	OrderID        uuid.UUID       `json:"order_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	RemovedTickets []removalJSON   `json:"removed_tickets"`
	RemovedMeals   []removalJSON   `json:"removed_meals"`
}

// DeleteResult describes an order that was deleted.
type DeleteResult struct {
	OrderID         uuid.UUID       `json:"order_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	ReleasedTickets int64           `json:"released_tickets"`
}

var _ session.OrderUpdater = (*Client)(nil)

// --- Calls ---

// ListOrders returns orders created between start and end, both dates
// inclusive.
func (c *Client) ListOrders(ctx context.Context, start, end time.Time) ([]session.Order, error) {
	q := url.Values{}
	q.Set("startDate", start.Format(dateLayout))
	q.Set("endDate", end.Format(dateLayout))

	var resp orderListJSON
	if err := c.do(ctx, http.MethodGet, "/orders?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]session.Order, len(resp.Orders))
	for i := range resp.Orders {
		out[i] = toSessionOrder(resp.Orders[i])
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*session.Order, error) {
	var resp orderJSON
	if err := c.do(ctx, http.MethodGet, "/orders/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	order := toSessionOrder(resp)
	return &order, nil
}

// UpdateOrder sends a saved session. It satisfies session.OrderUpdater.
func (c *Client) UpdateOrder(ctx context.Context, req session.UpdateRequest) (*session.UpdateResult, error) {
	var resp updateOrderResultJSON
	if err := c.do(ctx, http.MethodPut, "/orders/"+req.OrderID.String(), toUpdateJSON(req), &resp); err != nil {
		return nil, err
	}
	return &session.UpdateResult{
		OrderID:        resp.OrderID,
		TotalAmount:    resp.TotalAmount,
		NetAmount:      resp.NetAmount,
		RemovedTickets: toRemovals(resp.RemovedTickets),
		RemovedMeals:   toRemovals(resp.RemovedMeals),
	}, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	var resp DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/orders/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OpenSession loads a fresh catalog and the order, then opens an edit
// session on it.
func (c *Client) OpenSession(ctx context.Context, id uuid.UUID, opts ...session.Option) (*session.Session, error) {
	catalog, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	order, err := c.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", id, err)
	}
	return session.Open(*order, catalog, opts...), nil
}

// --- Conversion ---

func toSessionOrder(o orderJSON) session.Order {
	out := session.Order{
		ID:          o.ID,
		CreatedAt:   o.CreatedAt,
		TotalAmount: o.TotalAmount,
		NetAmount:   o.NetAmount,
		Tickets:     make([]session.TicketLine, len(o.Tickets)),
		Meals:       make([]session.MealLine, len(o.Meals)),
		Payments:    make([]session.Payment, len(o.Payments)),
	}
	if o.Description != nil {
		out.Description = *o.Description
	}
	for i, t := range o.Tickets {
		out.Tickets[i] = session.TicketLine{
			TicketTypeID: t.TicketTypeID,
			Category:     t.Category,
			Subcategory:  t.Subcategory,
			Price:        t.Price,
			Quantity:     t.Quantity,
		}
	}
	for i, m := range o.Meals {
		out.Meals[i] = session.MealLine{
			MealID:   m.MealID,
			Name:     m.Name,
			Category: m.Category,
			Price:    m.Price,
			Quantity: m.Quantity,
		}
	}
	for i, p := range o.Payments {
		out.Payments[i] = session.Payment{Method: p.Method, Amount: p.Amount}
	}
	return out
}

func toUpdateJSON(req session.UpdateRequest) updateOrderJSON {
	body := updateOrderJSON{
		AddedTickets:   make([]ticketDeltaJSON, len(req.Diff.AddedTickets)),
		RemovedTickets: make([]ticketDeltaJSON, len(req.Diff.RemovedTickets)),
		AddedMeals:     make([]mealDeltaJSON, len(req.Diff.AddedMeals)),
		RemovedMeals:   make([]mealDeltaJSON, len(req.Diff.RemovedMeals)),
		Payments:       make([]paymentJSON, len(req.Payments)),
	}
	for i, t := range req.Diff.AddedTickets {
		body.AddedTickets[i] = ticketDeltaJSON{TicketTypeID: t.TicketTypeID, Quantity: t.Quantity}
	}
	for i, t := range req.Diff.RemovedTickets {
		body.RemovedTickets[i] = ticketDeltaJSON{TicketTypeID: t.TicketTypeID, Quantity: t.Quantity}
	}
	for i, m := range req.Diff.AddedMeals {
		body.AddedMeals[i] = mealDeltaJSON{MealID: m.MealID, Quantity: m.Quantity, Price: m.Price}
	}
	for i, m := range req.Diff.RemovedMeals {
		body.RemovedMeals[i] = mealDeltaJSON{MealID: m.MealID, Quantity: m.Quantity, Price: m.Price}
	}
	for i, p := range req.Payments {
		body.Payments[i] = paymentJSON{Method: p.Method, Amount: p.Amount}
	}
	return body
}

func toRemovals(in []removalJSON) []session.Removal {
	out := make([]session.Removal, len(in))
	for i, r := range in {
		out[i] = session.Removal{ID: r.ID, Requested: r.Requested, Removed: r.Removed}
	}
	return out
}
