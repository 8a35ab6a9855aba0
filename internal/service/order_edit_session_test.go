package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/enum"
	"github.com/splashpos/backoffice/internal/session"
)

// These tests drive an edit session against the mock store and check that
// the totals the operator saw are the totals UpdateOrder stores.

type soldTicket struct {
	typeID uuid.UUID
	price  string
	ago    time.Duration
}

type storedMeal struct {
	mealID   uuid.UUID
	price    string
	quantity int32
}

// seedOrder replaces the fixture order's lines and payments.
func (f fixture) seedOrder(tickets []soldTicket, meals []storedMeal, payments []PaymentEntry) {
	s := f.store
	ref := pgtype.UUID{Bytes: f.orderID, Valid: true}
	now := time.Now()

	s.tickets = nil
	gross := decimal.Zero
	for _, t := range tickets {
		s.tickets = append(s.tickets, database.Ticket{
			ID:           uuid.New(),
			TicketTypeID: t.typeID,
			OrderID:      ref,
			Status:       "sold",
			SoldPrice:    makeNumeric(t.price),
			SoldAt:       pgtype.Timestamptz{Time: now.Add(-t.ago), Valid: true},
		})
		gross = gross.Add(dec(t.price))
	}
	s.orderMeals = map[[2]uuid.UUID]database.OrderMeal{}
	for _, m := range meals {
		s.orderMeals[[2]uuid.UUID{f.orderID, m.mealID}] = database.OrderMeal{
			OrderID: f.orderID, MealID: m.mealID, Quantity: m.quantity, Price: makeNumeric(m.price),
		}
		gross = gross.Add(dec(m.price).Mul(decimal.NewFromInt(int64(m.quantity))))
	}
	s.payments = nil
	for i, p := range payments {
		s.payments = append(s.payments, database.Payment{
			ID: uuid.New(), OrderID: f.orderID, Method: p.Method, Amount: decimalToNumeric(p.Amount), Position: int32(i),
		})
	}

	o := s.orders[f.orderID]
	o.TotalAmount = decimalToNumeric(gross)
	o.NetAmount = decimalToNumeric(NetTotal(gross, payments))
	s.orders[f.orderID] = o
}

// loadSession builds the order the way the orders endpoint returns it and
// opens a session on it.
func (f fixture) loadSession() *session.Session {
	s := f.store
	ref := pgtype.UUID{Bytes: f.orderID, Valid: true}

	type lineKey struct {
		typeID uuid.UUID
		price  string
	}
	var keys []lineKey
	lines := map[lineKey]*session.TicketLine{}
	firstSale := map[lineKey]time.Time{}
	for _, t := range s.tickets {
		if t.OrderID != ref || t.Status != "sold" {
			continue
		}
		price := numericToDecimal(t.SoldPrice)
		k := lineKey{t.TicketTypeID, price.StringFixed(2)}
		line, ok := lines[k]
		if !ok {
			tt := s.ticketTypes[t.TicketTypeID]
			line = &session.TicketLine{
				TicketTypeID: tt.ID, Category: tt.Category, Subcategory: tt.Subcategory, Price: price,
			}
			lines[k] = line
			keys = append(keys, k)
		}
		line.Quantity++
		if first, ok := firstSale[k]; !ok || t.SoldAt.Time.Before(first) {
			firstSale[k] = t.SoldAt.Time
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ti, tj := s.ticketTypes[keys[i].typeID], s.ticketTypes[keys[j].typeID]
		if ti.Category != tj.Category {
			return ti.Category < tj.Category
		}
		if ti.Subcategory != tj.Subcategory {
			return ti.Subcategory < tj.Subcategory
		}
		return firstSale[keys[i]].Before(firstSale[keys[j]])
	})

	order := session.Order{
		ID:          f.orderID,
		TotalAmount: numericToDecimal(s.orders[f.orderID].TotalAmount),
		NetAmount:   numericToDecimal(s.orders[f.orderID].NetAmount),
	}
	for _, k := range keys {
		order.Tickets = append(order.Tickets, *lines[k])
	}
	for key, om := range s.orderMeals {
		if key[0] != f.orderID {
			continue
		}
		meal := s.meals[om.MealID]
		order.Meals = append(order.Meals, session.MealLine{
			MealID: om.MealID, Name: meal.Name, Category: meal.Category,
			Price: numericToDecimal(om.Price), Quantity: int(om.Quantity),
		})
	}
	sort.Slice(order.Meals, func(i, j int) bool { return order.Meals[i].Name < order.Meals[j].Name })
	for _, p := range s.payments {
		order.Payments = append(order.Payments, session.Payment{Method: p.Method, Amount: numericToDecimal(p.Amount)})
	}

	var catalog session.Catalog
	for _, tt := range s.ticketTypes {
		catalog.TicketTypes = append(catalog.TicketTypes, session.TicketType{
			ID: tt.ID, Category: tt.Category, Subcategory: tt.Subcategory, Price: numericToDecimal(tt.Price),
		})
	}
	for _, m := range s.meals {
		catalog.Meals = append(catalog.Meals, session.Meal{
			ID: m.ID, Name: m.Name, Category: m.Category, Price: numericToDecimal(m.Price),
		})
	}
	return session.Open(order, catalog)
}

func toUpdateOrderRequest(req session.UpdateRequest) UpdateOrderRequest {
	out := UpdateOrderRequest{OrderID: req.OrderID}
	for _, t := range req.Diff.AddedTickets {
		out.AddedTickets = append(out.AddedTickets, TicketDelta{TicketTypeID: t.TicketTypeID, Quantity: int32(t.Quantity)})
	}
	for _, t := range req.Diff.RemovedTickets {
		out.RemovedTickets = append(out.RemovedTickets, TicketDelta{TicketTypeID: t.TicketTypeID, Quantity: int32(t.Quantity)})
	}
	for _, m := range req.Diff.AddedMeals {
		out.AddedMeals = append(out.AddedMeals, MealDelta{MealID: m.MealID, Quantity: int32(m.Quantity), Price: m.Price})
	}
	for _, m := range req.Diff.RemovedMeals {
		out.RemovedMeals = append(out.RemovedMeals, MealDelta{MealID: m.MealID, Quantity: int32(m.Quantity), Price: m.Price})
	}
	for _, p := range req.Payments {
		out.Payments = append(out.Payments, PaymentEntry{Method: p.Method, Amount: p.Amount})
	}
	return out
}

func TestUpdateOrder_MatchesSessionTotals(t *testing.T) {
	cash := func(amount string) []PaymentEntry {
		return []PaymentEntry{{Method: enum.PaymentMethodCash, Amount: dec(amount)}}
	}

	tests := []struct {
		name     string
		tickets  func(f fixture) []soldTicket
		meals    func(f fixture) []storedMeal
		payments []PaymentEntry
		edit     func(t *testing.T, f fixture, s *session.Session)
		wantNet  string
	}{
		{
			name: "remove ticket with mixed prices",
			tickets: func(f fixture) []soldTicket {
				return []soldTicket{
					{typeID: f.adult, price: "60.00", ago: 2 * time.Hour},
					{typeID: f.adult, price: "50.00", ago: time.Hour},
				}
			},
			payments: cash("110.00"),
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.RemoveTicket(f.adult))
			},
			wantNet: "50.00",
		},
		{
			name: "emptied ticket line bought back and removed again",
			tickets: func(f fixture) []soldTicket {
				return []soldTicket{
					{typeID: f.adult, price: "100.00", ago: 2 * time.Hour},
					{typeID: f.adult, price: "80.00", ago: time.Hour},
				}
			},
			payments: cash("180.00"),
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.RemoveTicket(f.adult))
				must(t, s.AddTicket(f.adult))
				must(t, s.RemoveTicket(f.adult))
			},
			wantNet: "80.00",
		},
		{
			name: "meal removed then re-added keeps snapshot price",
			meals: func(f fixture) []storedMeal {
				return []storedMeal{{mealID: f.soda, price: "10.00", quantity: 1}}
			},
			payments: cash("10.00"),
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.RemoveMeal(f.soda))
				must(t, s.AddMeal(f.soda))
				must(t, s.AddTicket(f.child))
			},
			wantNet: "70.00",
		},
		{
			name: "meal added then removed below stored quantity",
			meals: func(f fixture) []storedMeal {
				return []storedMeal{{mealID: f.burger, price: "40.00", quantity: 2}}
			},
			payments: cash("80.00"),
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.AddMeal(f.burger))
				must(t, s.RemoveMeal(f.burger))
				must(t, s.RemoveMeal(f.burger))
				must(t, s.AddMeal(f.soda))
			},
			wantNet: "55.00",
		},
		{
			name: "discount with added ticket",
			tickets: func(f fixture) []soldTicket {
				return []soldTicket{
					{typeID: f.adult, price: "100.00", ago: time.Hour},
					{typeID: f.adult, price: "100.00", ago: time.Hour},
				}
			},
			payments: cash("200.00"),
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.AddPayment())
				must(t, s.SetPaymentMethod(1, enum.PaymentMethodDiscount))
				must(t, s.SetPaymentAmount(1, "30"))
				must(t, s.AddTicket(f.child))
				must(t, s.SetPaymentAmount(0, "230"))
			},
			wantNet: "230.00",
		},
		{
			name: "existing discount with mixed edits",
			tickets: func(f fixture) []soldTicket {
				return []soldTicket{
					{typeID: f.adult, price: "90.00", ago: 3 * time.Hour},
					{typeID: f.child, price: "60.00", ago: 2 * time.Hour},
				}
			},
			meals: func(f fixture) []storedMeal {
				return []storedMeal{{mealID: f.burger, price: "45.00", quantity: 1}}
			},
			payments: []PaymentEntry{
				{Method: enum.PaymentMethodCash, Amount: dec("170.00")},
				{Method: enum.PaymentMethodDiscount, Amount: dec("25.00")},
			},
			edit: func(t *testing.T, f fixture, s *session.Session) {
				must(t, s.AddTicket(f.adult))
				must(t, s.RemoveTicket(f.adult))
				must(t, s.RemoveMeal(f.burger))
				must(t, s.AddMeal(f.burger))
				must(t, s.AddMeal(f.soda))
			},
			wantNet: "195.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			var tickets []soldTicket
			if tt.tickets != nil {
				tickets = tt.tickets(f)
			}
			var meals []storedMeal
			if tt.meals != nil {
				meals = tt.meals(f)
			}
			f.seedOrder(tickets, meals, tt.payments)

			s := f.loadSession()
			tt.edit(t, f, s)
			if !s.CanCommit() {
				t.Fatalf("session not committable: net %s, payments %+v", s.Net(), s.Payments())
			}
			if got := s.Net().StringFixed(2); got != tt.wantNet {
				t.Fatalf("session net = %s, want %s", got, tt.wantNet)
			}

			svc, _ := newTestEditService(f.store)
			result, err := svc.UpdateOrder(context.Background(), toUpdateOrderRequest(s.Request()))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !numericEquals(result.Order.NetAmount, s.Net().StringFixed(2)) {
				t.Errorf("stored net = %s, session net = %s",
					numericToDecimal(result.Order.NetAmount).StringFixed(2), s.Net().StringFixed(2))
			}
			if !numericEquals(result.Order.TotalAmount, s.Gross().StringFixed(2)) {
				t.Errorf("stored gross = %s, session gross = %s",
					numericToDecimal(result.Order.TotalAmount).StringFixed(2), s.Gross().StringFixed(2))
			}

			// The reloaded order shows the lines the operator saw.
			reloaded := f.loadSession()
			if !reloaded.Gross().Equal(s.Gross()) {
				t.Errorf("reloaded gross = %s, session gross = %s", reloaded.Gross(), s.Gross())
			}
		})
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
