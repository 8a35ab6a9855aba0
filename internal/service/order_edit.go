package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/enum"
)

// Errors returned by the order edit service.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrUnknownTicketType    = errors.New("unknown ticket type")
	ErrUnknownMeal          = errors.New("unknown meal")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrQuantityTooLarge     = errors.New("quantity exceeds per-type limit")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentAmount = errors.New("payment amount must be >= 0")
	ErrTooManyPayments      = errors.New("an order holds at most 5 payments")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderEditStore defines the DB methods needed to mutate and delete orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderEditStore interface {
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetTicketType(ctx context.Context, id uuid.UUID) (database.TicketType, error)
	ClaimAvailableTicket(ctx context.Context, arg database.ClaimAvailableTicketParams) (database.Ticket, error)
	CreateSoldTicket(ctx context.Context, arg database.CreateSoldTicketParams) (database.Ticket, error)
	ListSoldTicketsForRelease(ctx context.Context, arg database.ListSoldTicketsForReleaseParams) ([]database.Ticket, error)
	DeleteTicket(ctx context.Context, id uuid.UUID) error
	ReleaseTicketsByOrder(ctx context.Context, orderID pgtype.UUID) (int64, error)
	GetMeal(ctx context.Context, id uuid.UUID) (database.Meal, error)
	AddOrderMeal(ctx context.Context, arg database.AddOrderMealParams) (database.OrderMeal, error)
	GetOrderMealForUpdate(ctx context.Context, arg database.GetOrderMealForUpdateParams) (database.OrderMeal, error)
	UpdateOrderMealQuantity(ctx context.Context, arg database.UpdateOrderMealQuantityParams) error
	DeleteOrderMeal(ctx context.Context, arg database.DeleteOrderMealParams) error
	DeleteOrderMealsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
	DeletePaymentsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	DeleteCreditTransactionsByOrder(ctx context.Context, orderID pgtype.UUID) (int64, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
}

// NewOrderEditStore creates an OrderEditStore from a DBTX (pool or tx).
type NewOrderEditStore func(db database.DBTX) OrderEditStore

// MutationStage names the step an order mutation was in when it stopped.
type MutationStage string

const (
	StageValidating        MutationStage = "validating"
	StageApplyingTickets   MutationStage = "applying_tickets"
	StageApplyingMeals     MutationStage = "applying_meals"
	StageTotaling          MutationStage = "totaling"
	StageReplacingPayments MutationStage = "replacing_payments"
	StageCommitting        MutationStage = "committing"
)

// MutationError reports a rolled-back order mutation.
type MutationError struct {
	Stage MutationStage
	Err   error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("order mutation rolled back while %s: %v", e.Stage, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// TicketDelta is a number of units of one ticket type.
type TicketDelta struct {
	TicketTypeID uuid.UUID
	Quantity     int32
}

// MealDelta is a number of units of one meal. Price is what the caller
// displayed; the meal catalog price is what gets stored.
type MealDelta struct {
	MealID   uuid.UUID
	Quantity int32
	Price    decimal.Decimal
}

// PaymentEntry is one row of the replacement payment set.
type PaymentEntry struct {
	Method string
	Amount decimal.Decimal
}

// UpdateOrderRequest is the diff produced by one edit session.
type UpdateOrderRequest struct {
	OrderID        uuid.UUID
	AddedTickets   []TicketDelta
	RemovedTickets []TicketDelta
	AddedMeals     []MealDelta
	RemovedMeals   []MealDelta
	Payments       []PaymentEntry
}

// RemovalResult compares requested and actually removed units for one type.
type RemovalResult struct {
	ID        uuid.UUID
	Requested int32
	Removed   int32
}

// UpdateOrderResult is the committed order state.
type UpdateOrderResult struct {
	Order          database.Order
	Payments       []database.Payment
	RemovedTickets []RemovalResult
	RemovedMeals   []RemovalResult
}

// DeleteOrderResult describes what a delete cleaned up.
type DeleteOrderResult struct {
	Order                database.Order
	ReleasedTickets      int64
	DeletedMealLines     int64
	DeletedPayments      int64
	DeletedCreditEntries int64
}

// OrderEditService applies edit-session diffs and deletes orders.
type OrderEditService struct {
	pool     TxBeginner
	newStore NewOrderEditStore
}

// NewOrderEditService creates a new OrderEditService.
func NewOrderEditService(pool TxBeginner, newStore NewOrderEditStore) *OrderEditService {
	return &OrderEditService{pool: pool, newStore: newStore}
}

// UpdateOrder applies ticket and meal changes, recomputes the order total from
// stored prices and replaces the payment set, all in one transaction.
func (s *OrderEditService) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*UpdateOrderResult, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	orderRef := pgtype.UUID{Bytes: req.OrderID, Valid: true}

	// --- Validating ---
	order, err := store.GetOrderForUpdate(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &MutationError{Stage: StageValidating, Err: ErrOrderNotFound}
		}
		return nil, &MutationError{Stage: StageValidating, Err: fmt.Errorf("get order: %w", err)}
	}

	total := numericToDecimal(order.TotalAmount)

	// --- Applying tickets ---
	for i, t := range req.AddedTickets {
		tt, err := store.GetTicketType(ctx, t.TicketTypeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &MutationError{Stage: StageApplyingTickets, Err: fmt.Errorf("added_tickets[%d]: %w", i, ErrUnknownTicketType)}
			}
			return nil, &MutationError{Stage: StageApplyingTickets, Err: fmt.Errorf("added_tickets[%d]: get ticket type: %w", i, err)}
		}
		price := numericToDecimal(tt.Price)
		for n := int32(0); n < t.Quantity; n++ {
			if err := sellTicket(ctx, store, orderRef, tt.ID, price); err != nil {
				return nil, &MutationError{Stage: StageApplyingTickets, Err: fmt.Errorf("added_tickets[%d]: %w", i, err)}
			}
		}
		total = total.Add(price.Mul(decimal.NewFromInt32(t.Quantity)))
	}

	removedTickets := make([]RemovalResult, 0, len(req.RemovedTickets))
	for i, t := range req.RemovedTickets {
		tickets, err := store.ListSoldTicketsForRelease(ctx, database.ListSoldTicketsForReleaseParams{
			OrderID:      orderRef,
			TicketTypeID: t.TicketTypeID,
			Limit:        t.Quantity,
		})
		if err != nil {
			return nil, &MutationError{Stage: StageApplyingTickets, Err: fmt.Errorf("removed_tickets[%d]: list tickets: %w", i, err)}
		}
		for _, ticket := range tickets {
			if err := store.DeleteTicket(ctx, ticket.ID); err != nil {
				return nil, &MutationError{Stage: StageApplyingTickets, Err: fmt.Errorf("removed_tickets[%d]: delete ticket: %w", i, err)}
			}
			total = total.Sub(numericToDecimal(ticket.SoldPrice))
		}
		removedTickets = append(removedTickets, RemovalResult{
			ID:        t.TicketTypeID,
			Requested: t.Quantity,
			Removed:   int32(len(tickets)),
		})
	}

	// --- Applying meals ---
	for i, m := range req.AddedMeals {
		meal, err := store.GetMeal(ctx, m.MealID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &MutationError{Stage: StageApplyingMeals, Err: fmt.Errorf("added_meals[%d]: %w", i, ErrUnknownMeal)}
			}
			return nil, &MutationError{Stage: StageApplyingMeals, Err: fmt.Errorf("added_meals[%d]: get meal: %w", i, err)}
		}
		line, err := store.AddOrderMeal(ctx, database.AddOrderMealParams{
			OrderID:  req.OrderID,
			MealID:   meal.ID,
			Quantity: m.Quantity,
			Price:    meal.Price,
		})
		if err != nil {
			return nil, &MutationError{Stage: StageApplyingMeals, Err: fmt.Errorf("added_meals[%d]: add line: %w", i, err)}
		}
		// An existing line keeps its original price snapshot.
		total = total.Add(numericToDecimal(line.Price).Mul(decimal.NewFromInt32(m.Quantity)))
	}

	removedMeals := make([]RemovalResult, 0, len(req.RemovedMeals))
	for i, m := range req.RemovedMeals {
		removed, price, err := removeMealUnits(ctx, store, req.OrderID, m)
		if err != nil {
			return nil, &MutationError{Stage: StageApplyingMeals, Err: fmt.Errorf("removed_meals[%d]: %w", i, err)}
		}
		total = total.Sub(price.Mul(decimal.NewFromInt32(removed)))
		removedMeals = append(removedMeals, RemovalResult{
			ID:        m.MealID,
			Requested: m.Quantity,
			Removed:   removed,
		})
	}

	// --- Totaling ---
	gross := total.Round(2)
	if gross.IsNegative() {
		gross = decimal.Zero
	}
	net := NetTotal(gross, req.Payments)

	updated, err := store.UpdateOrderTotals(ctx, database.UpdateOrderTotalsParams{
		ID:          req.OrderID,
		TotalAmount: decimalToNumeric(gross),
		NetAmount:   decimalToNumeric(net),
	})
	if err != nil {
		return nil, &MutationError{Stage: StageTotaling, Err: fmt.Errorf("update totals: %w", err)}
	}

	// --- Replacing payments ---
	if _, err := store.DeletePaymentsByOrder(ctx, req.OrderID); err != nil {
		return nil, &MutationError{Stage: StageReplacingPayments, Err: fmt.Errorf("delete payments: %w", err)}
	}
	payments := make([]database.Payment, 0, len(req.Payments))
	for i, p := range req.Payments {
		payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
			OrderID:  req.OrderID,
			Method:   p.Method,
			Amount:   decimalToNumeric(p.Amount),
			Position: int32(i),
		})
		if err != nil {
			return nil, &MutationError{Stage: StageReplacingPayments, Err: fmt.Errorf("payments[%d]: create payment: %w", i, err)}
		}
		payments = append(payments, payment)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, &MutationError{Stage: StageCommitting, Err: fmt.Errorf("commit tx: %w", err)}
	}

	return &UpdateOrderResult{
		Order:          updated,
		Payments:       payments,
		RemovedTickets: removedTickets,
		RemovedMeals:   removedMeals,
	}, nil
}

// DeleteOrder removes an order with its payments, meal lines and credit
// ledger entries. Its tickets go back to the available pool.
func (s *OrderEditService) DeleteOrder(ctx context.Context, orderID uuid.UUID) (*DeleteOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	orderRef := pgtype.UUID{Bytes: orderID, Valid: true}

	if _, err := store.GetOrderForUpdate(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	result := &DeleteOrderResult{}

	if result.DeletedCreditEntries, err = store.DeleteCreditTransactionsByOrder(ctx, orderRef); err != nil {
		return nil, fmt.Errorf("delete credit transactions: %w", err)
	}
	if result.DeletedPayments, err = store.DeletePaymentsByOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("delete payments: %w", err)
	}
	if result.DeletedMealLines, err = store.DeleteOrderMealsByOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("delete meal lines: %w", err)
	}
	if result.ReleasedTickets, err = store.ReleaseTicketsByOrder(ctx, orderRef); err != nil {
		return nil, fmt.Errorf("release tickets: %w", err)
	}

	deleted, err := store.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	result.Order = deleted

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// NetTotal subtracts discount payments from gross, floored at zero.
func NetTotal(gross decimal.Decimal, payments []PaymentEntry) decimal.Decimal {
	discount := decimal.Zero
	for _, p := range payments {
		if enum.IsDiscount(p.Method) {
			discount = discount.Add(p.Amount)
		}
	}
	net := gross.Sub(discount.Round(2)).Round(2)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// sellTicket claims the oldest available ticket of the type, or prints a new
// one when the pool is empty.
func sellTicket(ctx context.Context, store OrderEditStore, orderRef pgtype.UUID, ticketTypeID uuid.UUID, price decimal.Decimal) error {
	_, err := store.ClaimAvailableTicket(ctx, database.ClaimAvailableTicketParams{
		OrderID:      orderRef,
		SoldPrice:    decimalToNumeric(price),
		TicketTypeID: ticketTypeID,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("claim ticket: %w", err)
	}
	if _, err := store.CreateSoldTicket(ctx, database.CreateSoldTicketParams{
		TicketTypeID: ticketTypeID,
		OrderID:      orderRef,
		SoldPrice:    decimalToNumeric(price),
	}); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// removeMealUnits lowers a meal line's quantity, deleting the line when it
// reaches zero. It returns how many units went away and their snapshot price.
func removeMealUnits(ctx context.Context, store OrderEditStore, orderID uuid.UUID, m MealDelta) (int32, decimal.Decimal, error) {
	line, err := store.GetOrderMealForUpdate(ctx, database.GetOrderMealForUpdateParams{
		OrderID: orderID,
		MealID:  m.MealID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, decimal.Zero, nil
		}
		return 0, decimal.Zero, fmt.Errorf("get meal line: %w", err)
	}

	price := numericToDecimal(line.Price)
	remaining := line.Quantity - m.Quantity
	if remaining <= 0 {
		if err := store.DeleteOrderMeal(ctx, database.DeleteOrderMealParams{
			OrderID: orderID,
			MealID:  m.MealID,
		}); err != nil {
			return 0, decimal.Zero, fmt.Errorf("delete meal line: %w", err)
		}
		return line.Quantity, price, nil
	}

	if err := store.UpdateOrderMealQuantity(ctx, database.UpdateOrderMealQuantityParams{
		OrderID:  orderID,
		MealID:   m.MealID,
		Quantity: remaining,
	}); err != nil {
		return 0, decimal.Zero, fmt.Errorf("update meal line: %w", err)
	}
	return m.Quantity, price, nil
}

func validateUpdateRequest(req UpdateOrderRequest) error {
	for i, t := range req.AddedTickets {
		if err := validateQuantity(t.Quantity, enum.MaxTicketsPerType); err != nil {
			return fmt.Errorf("added_tickets[%d]: %w", i, err)
		}
	}
	for i, t := range req.RemovedTickets {
		if err := validateQuantity(t.Quantity, enum.MaxTicketsPerType); err != nil {
			return fmt.Errorf("removed_tickets[%d]: %w", i, err)
		}
	}
	for i, m := range req.AddedMeals {
		if err := validateQuantity(m.Quantity, enum.MaxMealsPerType); err != nil {
			return fmt.Errorf("added_meals[%d]: %w", i, err)
		}
	}
	for i, m := range req.RemovedMeals {
		if err := validateQuantity(m.Quantity, enum.MaxMealsPerType); err != nil {
			return fmt.Errorf("removed_meals[%d]: %w", i, err)
		}
	}

	if len(req.Payments) > enum.MaxPaymentsPerOrder {
		return ErrTooManyPayments
	}
	for i, p := range req.Payments {
		if !isValidPaymentMethod(p.Method) {
			return fmt.Errorf("payments[%d]: %w", i, ErrInvalidPaymentMethod)
		}
		// Discounts too: a negative discount would raise the net above gross.
		if p.Amount.IsNegative() {
			return fmt.Errorf("payments[%d]: %w", i, ErrInvalidPaymentAmount)
		}
	}
	return nil
}

func validateQuantity(q, limit int32) error {
	if q <= 0 {
		return ErrInvalidQuantity
	}
	if q > limit {
		return ErrQuantityTooLarge
	}
	return nil
}

// isValidPaymentMethod accepts catalog-style values: lowercase letters,
// digits and underscores. The catalog itself is editable, so the value is
// not checked against a fixed list.
func isValidPaymentMethod(s string) bool {
	if s == "" || len(s) > 50 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
