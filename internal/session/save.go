package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateRequest is what a save sends to the order mutation endpoint.
type UpdateRequest struct {
	OrderID  uuid.UUID
	Diff     Diff
	Payments []Payment
}

// Removal reports how many units of one ticket type or meal the server
// actually removed.
type Removal struct {
	ID        uuid.UUID
	Requested int
	Removed   int
}

// UpdateResult is the server's answer to a save.
type UpdateResult struct {
	OrderID        uuid.UUID
	TotalAmount    decimal.Decimal
	NetAmount      decimal.Decimal
	RemovedTickets []Removal
	RemovedMeals   []Removal
}

// Partial reports whether the server removed fewer units than asked.
func (r *UpdateResult) Partial() bool {
	for _, list := range [][]Removal{r.RemovedTickets, r.RemovedMeals} {
		for _, rm := range list {
			if rm.Removed < rm.Requested {
				return true
			}
		}
	}
	return false
}

// OrderUpdater applies a saved session. Implemented by apiclient.Client.
type OrderUpdater interface {
	UpdateOrder(ctx context.Context, req UpdateRequest) (*UpdateResult, error)
}

// Request returns the payload Save would send.
func (s *Session) Request() UpdateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request()
}

func (s *Session) request() UpdateRequest {
	return UpdateRequest{
		OrderID:  s.orderID,
		Diff:     s.diff.clone(),
		Payments: append([]Payment(nil), s.payments...),
	}
}

// Save sends the diff and final payments through u. On success the session
// closes. On failure it stays open with its state intact so the operator can
// retry.
func (s *Session) Save(ctx context.Context, u OrderUpdater) (*UpdateResult, error) {
	s.mu.Lock()
	if err := s.checkEditable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.canCommit() {
		err := s.reject("Payments must match the total and something must change", ErrNotCommittable)
		s.mu.Unlock()
		return nil, err
	}
	req := s.request()
	s.saving = true
	s.mu.Unlock()

	result, err := u.UpdateOrder(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		err = fmt.Errorf("save order %s: %w", s.orderID, err)
		s.notify(LevelError, "Could not save order", err)
		return nil, err
	}

	s.closed = true
	if result != nil && result.Partial() {
		s.notify(LevelWarning, "Order saved, but some items were already gone", nil)
	} else {
		s.notify(LevelInfo, "Order updated", nil)
	}
	return result, nil
}
