package apiclient

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/enum"
	"github.com/splashpos/backoffice/internal/session"
)

type ticketTypeJSON struct {
	ID             uuid.UUID       `json:"id"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory"`
	Price          decimal.Decimal `json:"price"`
	AvailableCount int             `json:"available_count"`
}

type mealJSON struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

func (c *Client) TicketTypes(ctx context.Context) ([]session.TicketType, error) {
	var rows []ticketTypeJSON
	if err := c.do(ctx, http.MethodGet, "/ticket-types", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]session.TicketType, len(rows))
	for i, r := range rows {
		out[i] = session.TicketType{
			ID:             r.ID,
			Category:       r.Category,
			Subcategory:    r.Subcategory,
			Price:          r.Price,
			AvailableCount: r.AvailableCount,
		}
	}
	return out, nil
}

func (c *Client) Meals(ctx context.Context) ([]session.Meal, error) {
	var rows []mealJSON
	if err := c.do(ctx, http.MethodGet, "/meals", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]session.Meal, len(rows))
	for i, r := range rows {
		out[i] = session.Meal{ID: r.ID, Name: r.Name, Category: r.Category, Price: r.Price}
	}
	return out, nil
}

// PaymentMethods never fails: an unreachable or empty catalog yields the
// default methods.
func (c *Client) PaymentMethods(ctx context.Context) []enum.PaymentMethodOption {
	var rows []enum.PaymentMethodOption
	if err := c.do(ctx, http.MethodGet, "/payment-methods", nil, &rows); err != nil {
		log.Printf("ERROR: fetch payment methods, using defaults: %v", err)
		return defaultPaymentMethods()
	}
	if len(rows) == 0 {
		return defaultPaymentMethods()
	}
	return rows
}

func defaultPaymentMethods() []enum.PaymentMethodOption {
	return append([]enum.PaymentMethodOption(nil), enum.DefaultPaymentMethods...)
}

// Catalog fetches a fresh snapshot for opening an edit session.
func (c *Client) Catalog(ctx context.Context) (session.Catalog, error) {
	ticketTypes, err := c.TicketTypes(ctx)
	if err != nil {
		return session.Catalog{}, fmt.Errorf("fetch ticket types: %w", err)
	}
	meals, err := c.Meals(ctx)
	if err != nil {
		return session.Catalog{}, fmt.Errorf("fetch meals: %w", err)
	}
	return session.Catalog{
		TicketTypes:    ticketTypes,
		Meals:          meals,
		PaymentMethods: c.PaymentMethods(ctx),
	}, nil
}
