package session

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/splashpos/backoffice/internal/enum"
)

// AddTicket adds one unit of a ticket type at its catalog price. Units join
// an existing line of the same type and price, otherwise a new line starts.
func (s *Session) AddTicket(ticketTypeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}

	tt, ok := s.catalog.ticketType(ticketTypeID)
	if !ok {
		return s.reject("Select a ticket type", ErrUnknownTicketType)
	}

	held := 0
	idx := -1
	for i, line := range s.tickets {
		if line.TicketTypeID != ticketTypeID {
			continue
		}
		held += line.Quantity
		if line.Price.Equal(tt.Price) {
			idx = i
		}
	}
	if held >= enum.MaxTicketsPerType {
		return s.reject(fmt.Sprintf("At most %d tickets per type", enum.MaxTicketsPerType), ErrLimitExceeded)
	}

	if idx >= 0 {
		s.tickets[idx].Quantity++
	} else {
		s.tickets = append(s.tickets, TicketLine{
			TicketTypeID: tt.ID,
			Category:     tt.Category,
			Subcategory:  tt.Subcategory,
			Price:        tt.Price,
			Quantity:     1,
		})
	}
	s.diff.AddedTickets = append(s.diff.AddedTickets, TicketDelta{TicketTypeID: ticketTypeID, Quantity: 1})

	s.recompute()
	s.autoAdjust()
	return nil
}

// RemoveTicket removes one unit of a ticket type from its first line that
// still holds units. Lines keep their load order, the order of each
// price's first sale, which is also the order the server releases sold
// tickets in.
//
// An emptied line stays in place with zero quantity and is hidden from
// Tickets, so a later AddTicket at that price refills the same position.
func (s *Session) RemoveTicket(ticketTypeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}

	idx := -1
	for i, line := range s.tickets {
		if line.TicketTypeID == ticketTypeID && line.Quantity > 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.reject("Ticket is not on this order", ErrLineNotFound)
	}

	s.tickets[idx].Quantity--
	s.diff.RemovedTickets = append(s.diff.RemovedTickets, TicketDelta{TicketTypeID: ticketTypeID, Quantity: 1})

	s.recompute()
	s.autoAdjust()
	return nil
}

// AddMeal adds one unit of a meal. An existing line keeps its snapshotted
// price, even one emptied earlier in this session, because the server adds
// onto the stored line before applying removals. A new line takes the
// catalog price.
func (s *Session) AddMeal(mealID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}

	idx := s.mealIndex(mealID)
	if idx >= 0 {
		if s.meals[idx].Quantity >= enum.MaxMealsPerType {
			return s.reject(fmt.Sprintf("At most %d of each meal", enum.MaxMealsPerType), ErrLimitExceeded)
		}
		s.meals[idx].Quantity++
	} else {
		meal, ok := s.catalog.meal(mealID)
		if !ok {
			return s.reject("Select a meal", ErrUnknownMeal)
		}
		s.meals = append(s.meals, MealLine{
			MealID:   meal.ID,
			Name:     meal.Name,
			Category: meal.Category,
			Price:    meal.Price,
			Quantity: 1,
		})
		idx = len(s.meals) - 1
	}
	s.diff.AddedMeals = append(s.diff.AddedMeals, MealDelta{
		MealID:   mealID,
		Quantity: 1,
		Price:    s.meals[idx].Price,
	})

	s.recompute()
	s.autoAdjust()
	return nil
}

// RemoveMeal removes one unit of a meal. An emptied line is hidden from
// Meals but keeps its price for a re-add.
func (s *Session) RemoveMeal(mealID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}

	idx := s.mealIndex(mealID)
	if idx < 0 || s.meals[idx].Quantity <= 0 {
		return s.reject("Meal is not on this order", ErrLineNotFound)
	}

	price := s.meals[idx].Price
	s.meals[idx].Quantity--
	s.diff.RemovedMeals = append(s.diff.RemovedMeals, MealDelta{MealID: mealID, Quantity: 1, Price: price})

	s.recompute()
	s.autoAdjust()
	return nil
}

func (s *Session) mealIndex(mealID uuid.UUID) int {
	for i, line := range s.meals {
		if line.MealID == mealID {
			return i
		}
	}
	return -1
}
