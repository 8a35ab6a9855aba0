package session

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/enum"
)

// SetPaymentMethod changes the method of payment i. Moving a payment into or
// out of the discount set recomputes the totals immediately; a change that
// would push the net total below zero is reverted.
func (s *Session) SetPaymentMethod(i int, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.payments) {
		return s.reject("Payment not found", ErrPaymentNotFound)
	}
	if !s.catalog.validMethod(method) {
		return s.reject(fmt.Sprintf("Unknown payment method %q", method), ErrInvalidPaymentMethod)
	}

	prev := s.payments[i].Method
	s.payments[i].Method = method
	if enum.IsDiscount(prev) == enum.IsDiscount(method) {
		return nil
	}

	if s.gross.Sub(discountOf(s.payments)).IsNegative() {
		s.payments[i].Method = prev
		return s.reject("Discount would make the total negative", ErrNegativeTotal)
	}
	s.recompute()
	return nil
}

// SetPaymentAmount sets payment i from operator input. Input that does not
// parse, or is negative, counts as zero. A discount is clamped to the gross
// total with a warning. A change that would push the net total below zero is
// rejected and the previous amount kept.
func (s *Session) SetPaymentAmount(i int, input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.payments) {
		return s.reject("Payment not found", ErrPaymentNotFound)
	}

	amount := parseAmount(input)
	isDiscount := enum.IsDiscount(s.payments[i].Method)
	clamped := false
	if isDiscount && amount.GreaterThan(s.gross) {
		amount = s.gross
		clamped = true
	}

	prev := s.payments[i].Amount
	s.payments[i].Amount = amount
	if isDiscount && s.gross.Sub(discountOf(s.payments)).IsNegative() {
		s.payments[i].Amount = prev
		return s.reject("Discounts would make the total negative", ErrNegativeTotal)
	}

	s.recompute()
	if clamped {
		s.notify(LevelWarning, fmt.Sprintf("Discount limited to the gross total of %s", s.gross.StringFixed(2)), ErrDiscountExceedsGross)
	}
	return nil
}

// AddPayment appends a cash entry for whatever the net total still lacks.
func (s *Session) AddPayment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}
	if len(s.payments) >= enum.MaxPaymentsPerOrder {
		return s.reject(fmt.Sprintf("At most %d payments per order", enum.MaxPaymentsPerOrder), ErrTooManyPayments)
	}

	remaining := floorZero(s.net.Sub(s.paid())).Round(2)
	s.payments = append(s.payments, Payment{Method: enum.PaymentMethodCash, Amount: remaining})
	return nil
}

// RemovePayment drops payment i. The last payment cannot be removed. Other
// payments keep their amounts.
func (s *Session) RemovePayment(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.payments) {
		return s.reject("Payment not found", ErrPaymentNotFound)
	}
	if len(s.payments) == 1 {
		return s.reject("An order needs at least one payment", ErrLastPaymentRequired)
	}

	wasDiscount := enum.IsDiscount(s.payments[i].Method)
	s.payments = append(s.payments[:i], s.payments[i+1:]...)
	if wasDiscount {
		s.recompute()
	}
	return nil
}

func parseAmount(input string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
