package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/splashpos/backoffice/internal/database"
)

// ErrInvalidDateRange is returned when the end date precedes the start date.
var ErrInvalidDateRange = errors.New("end date must not be before start date")

// OrderQueryStore defines the DB methods needed to read orders.
type OrderQueryStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrdersByDateRange(ctx context.Context, arg database.ListOrdersByDateRangeParams) ([]database.Order, error)
	ListTicketLinesByOrder(ctx context.Context, orderID pgtype.UUID) ([]database.ListTicketLinesByOrderRow, error)
	ListOrderMealsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderMealsByOrderRow, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
}

// OrderDetail is an order with its ticket lines, meal lines and payments.
type OrderDetail struct {
	Order    database.Order
	Tickets  []database.ListTicketLinesByOrderRow
	Meals    []database.ListOrderMealsByOrderRow
	Payments []database.Payment
}

// OrderQueryService loads orders for the back office.
type OrderQueryService struct {
	store OrderQueryStore
}

// NewOrderQueryService creates a new OrderQueryService.
func NewOrderQueryService(store OrderQueryStore) *OrderQueryService {
	return &OrderQueryService{store: store}
}

// GetOrder loads one order with its lines.
func (s *OrderQueryService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.loadDetail(ctx, order)
}

// ListOrders returns orders created on any day from startDate through
// endDate, newest first. Both dates are truncated to midnight in their own
// location.
func (s *OrderQueryService) ListOrders(ctx context.Context, startDate, endDate time.Time) ([]OrderDetail, error) {
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	orders, err := s.store.ListOrdersByDateRange(ctx, database.ListOrdersByDateRangeParams{
		StartAt: start,
		EndAt:   end.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	details := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		d, err := s.loadDetail(ctx, o)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *OrderQueryService) loadDetail(ctx context.Context, order database.Order) (*OrderDetail, error) {
	tickets, err := s.store.ListTicketLinesByOrder(ctx, pgtype.UUID{Bytes: order.ID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("list ticket lines: %w", err)
	}
	meals, err := s.store.ListOrderMealsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list meal lines: %w", err)
	}
	payments, err := s.store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return &OrderDetail{
		Order:    order,
		Tickets:  tickets,
		Meals:    meals,
		Payments: payments,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
