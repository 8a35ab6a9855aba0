// Package session holds the working copy of one order while an operator edits
// it from the admin console. It tracks the diff against the loaded order,
// keeps gross and net totals current after every mutation and gates saving
// until the payments reconcile with the net total.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/enum"
)

var (
	ErrLimitExceeded        = errors.New("quantity limit exceeded")
	ErrNegativeTotal        = errors.New("net total would be negative")
	ErrTooManyPayments      = errors.New("too many payments")
	ErrLastPaymentRequired  = errors.New("at least one payment is required")
	ErrDiscountExceedsGross = errors.New("discount exceeds gross total")
	ErrLineNotFound         = errors.New("line not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrUnknownTicketType    = errors.New("unknown ticket type")
	ErrUnknownMeal          = errors.New("unknown meal")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNotCommittable       = errors.New("nothing to save or payments do not match the total")
	ErrSaveInFlight         = errors.New("save already in progress")
	ErrSessionClosed        = errors.New("session is closed")
)

// reconcileTolerance is the largest payment/net gap still treated as settled.
var reconcileTolerance = decimal.New(1, -2)

// TicketLine is every unit of one ticket type sold at one price.
type TicketLine struct {
	TicketTypeID uuid.UUID
	Category     string
	Subcategory  string
	Price        decimal.Decimal
	Quantity     int
}

// MealLine is one meal row of an order with its snapshotted price.
type MealLine struct {
	MealID   uuid.UUID
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
}

type Payment struct {
	Method string
	Amount decimal.Decimal
}

// Order is an order as fetched from the API.
type Order struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Description string
	TotalAmount decimal.Decimal
	NetAmount   decimal.Decimal
	Tickets     []TicketLine
	Meals       []MealLine
	Payments    []Payment
}

type TicketDelta struct {
	TicketTypeID uuid.UUID
	Quantity     int
}

type MealDelta struct {
	MealID   uuid.UUID
	Quantity int
	Price    decimal.Decimal
}

// Diff is the set of unit changes made since the session opened. Entries are
// appended one per operation and never merged.
type Diff struct {
	AddedTickets   []TicketDelta
	RemovedTickets []TicketDelta
	AddedMeals     []MealDelta
	RemovedMeals   []MealDelta
}

// Empty reports whether no ticket or meal change has been recorded.
func (d Diff) Empty() bool {
	return len(d.AddedTickets) == 0 && len(d.RemovedTickets) == 0 &&
		len(d.AddedMeals) == 0 && len(d.RemovedMeals) == 0
}

func (d Diff) clone() Diff {
	return Diff{
		AddedTickets:   append([]TicketDelta(nil), d.AddedTickets...),
		RemovedTickets: append([]TicketDelta(nil), d.RemovedTickets...),
		AddedMeals:     append([]MealDelta(nil), d.AddedMeals...),
		RemovedMeals:   append([]MealDelta(nil), d.RemovedMeals...),
	}
}

// Session is the editable working copy of one order. It is safe for use from
// multiple goroutines, but operations are meant to be driven one at a time.
type Session struct {
	mu sync.Mutex

	orderID  uuid.UUID
	catalog  Catalog
	notifier Notifier

	tickets  []TicketLine
	meals    []MealLine
	payments []Payment
	original []Payment
	diff     Diff

	gross    decimal.Decimal
	discount decimal.Decimal
	net      decimal.Decimal

	saving bool
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier routes notices to n instead of discarding them.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// Open starts an edit session on a deep copy of order. An order without
// payments gets a single cash entry for its net total.
func Open(order Order, catalog Catalog, opts ...Option) *Session {
	s := &Session{
		orderID:  order.ID,
		catalog:  catalog,
		notifier: discardNotifier{},
		tickets:  append([]TicketLine(nil), order.Tickets...),
		meals:    append([]MealLine(nil), order.Meals...),
		payments: append([]Payment(nil), order.Payments...),
		original: append([]Payment(nil), order.Payments...),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.recompute()
	if len(s.payments) == 0 {
		s.payments = []Payment{{Method: enum.PaymentMethodCash, Amount: s.net}}
	}
	return s
}

// --- Read accessors ---

func (s *Session) OrderID() uuid.UUID { return s.orderID }

// Tickets returns the lines that hold at least one unit.
func (s *Session) Tickets() []TicketLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TicketLine, 0, len(s.tickets))
	for _, line := range s.tickets {
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}

// Meals returns the lines that hold at least one unit.
func (s *Session) Meals() []MealLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MealLine, 0, len(s.meals))
	for _, line := range s.meals {
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}

func (s *Session) Payments() []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payment(nil), s.payments...)
}

func (s *Session) Diff() Diff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diff.clone()
}

// Gross is the sum of all ticket and meal lines.
func (s *Session) Gross() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gross
}

// Discount is the sum of discount payments.
func (s *Session) Discount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

// Net is gross minus discount, floored at zero.
func (s *Session) Net() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net
}

// Paid is the sum of non-discount payments.
func (s *Session) Paid() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paid()
}

// Closed reports whether the session was saved or cancelled.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Cancel discards the session without saving.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// --- Totals ---

// Recompute rederives gross, discount and net from the current lines and
// payments. Every mutation already calls it; it is exported for callers that
// refresh the catalog or want to force a consistent view.
func (s *Session) Recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recompute()
}

func (s *Session) recompute() {
	s.gross = grossOf(s.tickets, s.meals)
	s.discount = discountOf(s.payments)
	s.net = floorZero(s.gross.Sub(s.discount)).Round(2)
}

func grossOf(tickets []TicketLine, meals []MealLine) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tickets {
		total = total.Add(t.Price.Mul(decimal.NewFromInt(int64(t.Quantity))))
	}
	for _, m := range meals {
		total = total.Add(m.Price.Mul(decimal.NewFromInt(int64(m.Quantity))))
	}
	return total.Round(2)
}

func discountOf(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if enum.IsDiscount(p.Method) {
			total = total.Add(p.Amount)
		}
	}
	return total.Round(2)
}

func (s *Session) paid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.payments {
		if !enum.IsDiscount(p.Method) {
			total = total.Add(p.Amount)
		}
	}
	return total.Round(2)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// autoAdjust keeps the single settling payment equal to the net total.
func (s *Session) autoAdjust() {
	idx := -1
	for i, p := range s.payments {
		if enum.IsDiscount(p.Method) {
			continue
		}
		if idx >= 0 {
			return
		}
		idx = i
	}
	if idx >= 0 {
		s.payments[idx].Amount = s.net
	}
}

// --- Commit gate ---

// Reconciled reports whether the non-discount payments cover the net total
// to within one cent.
func (s *Session) Reconciled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciled()
}

func (s *Session) reconciled() bool {
	return s.paid().Sub(s.net).Abs().LessThan(reconcileTolerance)
}

// Changed reports whether there is anything to save.
func (s *Session) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed()
}

func (s *Session) changed() bool {
	return !s.diff.Empty() || !samePayments(s.payments, s.original)
}

func samePayments(a, b []Payment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Method != b[i].Method || a[i].Amount.StringFixed(2) != b[i].Amount.StringFixed(2) {
			return false
		}
	}
	return true
}

// CanCommit reports whether Save would send the session.
func (s *Session) CanCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canCommit()
}

func (s *Session) canCommit() bool {
	return !s.closed && !s.saving && s.reconciled() && s.changed()
}

// checkEditable must be called with mu held.
func (s *Session) checkEditable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.saving {
		return ErrSaveInFlight
	}
	return nil
}
