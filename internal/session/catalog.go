package session

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/enum"
)

type TicketType struct {
	ID             uuid.UUID
	Category       string
	Subcategory    string
	Price          decimal.Decimal
	AvailableCount int
}

type Meal struct {
	ID       uuid.UUID
	Name     string
	Category string
	Price    decimal.Decimal
}

// Catalog is a read-only snapshot of what an order can be edited with.
// Sessions never refetch it.
type Catalog struct {
	TicketTypes    []TicketType
	Meals          []Meal
	PaymentMethods []enum.PaymentMethodOption
}

func (c Catalog) ticketType(id uuid.UUID) (TicketType, bool) {
	for _, t := range c.TicketTypes {
		if t.ID == id {
			return t, true
		}
	}
	return TicketType{}, false
}

func (c Catalog) meal(id uuid.UUID) (Meal, bool) {
	for _, m := range c.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return Meal{}, false
}

// validMethod accepts any method listed in the catalog, or any of the
// default methods when the catalog carries none.
func (c Catalog) validMethod(method string) bool {
	methods := c.PaymentMethods
	if len(methods) == 0 {
		methods = enum.DefaultPaymentMethods
	}
	for _, m := range methods {
		if m.Value == method {
			return true
		}
	}
	return false
}
