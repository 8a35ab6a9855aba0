package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adultID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	childID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	burgerID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	sodaID   = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog() Catalog {
	return Catalog{
		TicketTypes: []TicketType{
			{ID: adultID, Category: "Adult", Subcategory: "Weekday", Price: dec("50")},
			{ID: childID, Category: "Child", Subcategory: "Weekday", Price: dec("35.50")},
		},
		Meals: []Meal{
			{ID: burgerID, Name: "Burger", Category: "Food", Price: dec("20")},
			{ID: sodaID, Name: "Soda", Category: "Drinks", Price: dec("7.25")},
		},
	}
}

// baseOrder has 2 adult tickets at 50, 1 burger at 20 and one cash payment of 120.
func baseOrder() Order {
	return Order{
		ID:          uuid.New(),
		TotalAmount: dec("120"),
		NetAmount:   dec("120"),
		Tickets: []TicketLine{
			{TicketTypeID: adultID, Category: "Adult", Subcategory: "Weekday", Price: dec("50"), Quantity: 2},
		},
		Meals: []MealLine{
			{MealID: burgerID, Name: "Burger", Category: "Food", Price: dec("20"), Quantity: 1},
		},
		Payments: []Payment{{Method: enum.PaymentMethodCash, Amount: dec("120")}},
	}
}

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func openWith(t *testing.T, order Order) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	return Open(order, testCatalog(), WithNotifier(rec)), rec
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

// --- Open ---

func TestOpen_ComputesTotals(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	assertDecimal(t, "120", s.Gross())
	assertDecimal(t, "0", s.Discount())
	assertDecimal(t, "120", s.Net())
	assert.True(t, s.Reconciled())
	assert.False(t, s.Changed())
	assert.False(t, s.CanCommit())
	assert.True(t, s.Diff().Empty())
}

func TestOpen_SeedsCashPaymentWhenNoneExist(t *testing.T) {
	order := baseOrder()
	order.Payments = nil
	s, _ := openWith(t, order)

	payments := s.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, enum.PaymentMethodCash, payments[0].Method)
	assertDecimal(t, "120", payments[0].Amount)
	assert.True(t, s.Changed(), "seeded payment differs from the stored (empty) set")
	assert.True(t, s.CanCommit())
}

func TestOpen_DeepCopiesOrder(t *testing.T) {
	order := baseOrder()
	s, _ := openWith(t, order)

	require.NoError(t, s.AddTicket(adultID))
	assert.Equal(t, 2, order.Tickets[0].Quantity, "caller's order must not change")
	assertDecimal(t, "120", order.Payments[0].Amount)
}

// --- Tickets and meals ---

func TestAddTicket_SinglePaymentAutoAdjusts(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	require.NoError(t, s.AddTicket(adultID))

	assertDecimal(t, "170", s.Gross())
	payments := s.Payments()
	require.Len(t, payments, 1)
	assertDecimal(t, "170", payments[0].Amount)
	assert.True(t, s.CanCommit())

	req := s.Request()
	assert.Equal(t, []TicketDelta{{TicketTypeID: adultID, Quantity: 1}}, req.Diff.AddedTickets)
	assert.Empty(t, req.Diff.RemovedTickets)
	assert.Empty(t, req.Diff.AddedMeals)
	assert.Empty(t, req.Diff.RemovedMeals)
}

func TestAddTicket_LimitPerType(t *testing.T) {
	order := baseOrder()
	order.Tickets[0].Quantity = 49
	s, rec := openWith(t, order)

	require.NoError(t, s.AddTicket(adultID))
	err := s.AddTicket(adultID)

	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, 50, s.Tickets()[0].Quantity)
	assert.Len(t, s.Diff().AddedTickets, 1, "rejected add must not reach the diff")
	assert.Equal(t, LevelError, rec.last().Level)
	assert.ErrorIs(t, rec.last().Err, ErrLimitExceeded)
}

func TestAddTicket_NewPriceStartsNewLine(t *testing.T) {
	order := baseOrder()
	order.Tickets[0].Price = dec("40")
	order.Payments[0].Amount = dec("100")
	s, _ := openWith(t, order)

	require.NoError(t, s.AddTicket(adultID))

	tickets := s.Tickets()
	require.Len(t, tickets, 2)
	assertDecimal(t, "40", tickets[0].Price)
	assert.Equal(t, 2, tickets[0].Quantity)
	assertDecimal(t, "50", tickets[1].Price)
	assert.Equal(t, 1, tickets[1].Quantity)
	assertDecimal(t, "150", s.Gross())
}

func TestAddTicket_UnknownType(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	assert.ErrorIs(t, s.AddTicket(uuid.New()), ErrUnknownTicketType)
	assert.True(t, s.Diff().Empty())
}

func TestRemoveTicket_LastUnitHidesLine(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	require.NoError(t, s.RemoveTicket(adultID))
	require.NoError(t, s.RemoveTicket(adultID))
	assert.Empty(t, s.Tickets())
	assertDecimal(t, "20", s.Gross())
	assertDecimal(t, "20", s.Payments()[0].Amount)

	require.NoError(t, s.AddTicket(adultID))
	tickets := s.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, 1, tickets[0].Quantity)

	diff := s.Diff()
	assert.Len(t, diff.RemovedTickets, 2)
	assert.Len(t, diff.AddedTickets, 1)
}

func TestRemoveTicket_NotOnOrder(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	assert.ErrorIs(t, s.RemoveTicket(childID), ErrLineNotFound)
}

// twoPriceOrder has an adult line at 60 sold first and a later line at 50.
func twoPriceOrder() Order {
	order := baseOrder()
	order.Tickets = []TicketLine{
		{TicketTypeID: adultID, Category: "Adult", Subcategory: "Weekday", Price: dec("60"), Quantity: 1},
		{TicketTypeID: adultID, Category: "Adult", Subcategory: "Weekday", Price: dec("50"), Quantity: 1},
	}
	order.TotalAmount = dec("130")
	order.NetAmount = dec("130")
	order.Payments[0].Amount = dec("130")
	return order
}

func TestRemoveTicket_TakesFirstSoldLine(t *testing.T) {
	s, _ := openWith(t, twoPriceOrder())

	require.NoError(t, s.RemoveTicket(adultID))

	tickets := s.Tickets()
	require.Len(t, tickets, 1)
	assertDecimal(t, "50", tickets[0].Price)
	assertDecimal(t, "70", s.Gross())
}

func TestRemoveTicket_EmptiedLineRefillsInPlace(t *testing.T) {
	order := twoPriceOrder()
	order.Tickets[0], order.Tickets[1] = order.Tickets[1], order.Tickets[0]
	s, _ := openWith(t, order)

	// Empty the 50 line, buy one back at the catalog price of 50, then
	// remove again. The refilled line is still first.
	require.NoError(t, s.RemoveTicket(adultID))
	require.NoError(t, s.AddTicket(adultID))
	require.NoError(t, s.RemoveTicket(adultID))

	tickets := s.Tickets()
	require.Len(t, tickets, 1)
	assertDecimal(t, "60", tickets[0].Price)
	assertDecimal(t, "80", s.Gross())
}

func TestAddMeal(t *testing.T) {
	tests := []struct {
		name      string
		mealID    uuid.UUID
		wantLines int
		wantGross string
		wantPrice string
	}{
		{name: "existing line", mealID: burgerID, wantLines: 1, wantGross: "140", wantPrice: "20"},
		{name: "new line from catalog", mealID: sodaID, wantLines: 2, wantGross: "127.25", wantPrice: "7.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openWith(t, baseOrder())

			require.NoError(t, s.AddMeal(tt.mealID))

			assert.Len(t, s.Meals(), tt.wantLines)
			assertDecimal(t, tt.wantGross, s.Gross())
			added := s.Diff().AddedMeals
			require.Len(t, added, 1)
			assert.Equal(t, tt.mealID, added[0].MealID)
			assertDecimal(t, tt.wantPrice, added[0].Price)
		})
	}
}

func TestAddMeal_ExistingLineKeepsSnapshotPrice(t *testing.T) {
	order := baseOrder()
	order.Meals[0].Price = dec("18")
	order.Payments[0].Amount = dec("118")
	s, _ := openWith(t, order)

	require.NoError(t, s.AddMeal(burgerID))

	assertDecimal(t, "136", s.Gross())
	assertDecimal(t, "18", s.Diff().AddedMeals[0].Price)
}

func TestAddMeal_LimitPerMeal(t *testing.T) {
	order := baseOrder()
	order.Meals[0].Quantity = enum.MaxMealsPerType
	s, _ := openWith(t, order)

	assert.ErrorIs(t, s.AddMeal(burgerID), ErrLimitExceeded)
	assert.Equal(t, enum.MaxMealsPerType, s.Meals()[0].Quantity)
}

func TestAddMeal_Unknown(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	assert.ErrorIs(t, s.AddMeal(uuid.New()), ErrUnknownMeal)
}

func TestRemoveMeal(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	require.NoError(t, s.RemoveMeal(burgerID))
	assert.Empty(t, s.Meals())
	assertDecimal(t, "100", s.Gross())
	assert.Equal(t, []MealDelta{{MealID: burgerID, Quantity: 1, Price: dec("20")}}, s.Diff().RemovedMeals)

	assert.ErrorIs(t, s.RemoveMeal(burgerID), ErrLineNotFound)
}

func TestRemoveMeal_ReAddKeepsSnapshotPrice(t *testing.T) {
	order := baseOrder()
	order.Meals[0].Price = dec("15")
	order.TotalAmount = dec("115")
	order.NetAmount = dec("115")
	order.Payments[0].Amount = dec("115")
	s, _ := openWith(t, order)

	require.NoError(t, s.RemoveMeal(burgerID))
	require.NoError(t, s.AddMeal(burgerID))

	meals := s.Meals()
	require.Len(t, meals, 1)
	assertDecimal(t, "15", meals[0].Price)
	assertDecimal(t, "115", s.Gross())
	assertDecimal(t, "15", s.Diff().AddedMeals[0].Price)
}

func TestMutations_SplitPaymentsNotAdjusted(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodCash, Amount: dec("70")},
		{Method: enum.PaymentMethodVisa, Amount: dec("50")},
	}
	s, _ := openWith(t, order)

	require.NoError(t, s.AddTicket(adultID))

	payments := s.Payments()
	assertDecimal(t, "70", payments[0].Amount)
	assertDecimal(t, "50", payments[1].Amount)
	assert.False(t, s.Reconciled())
	assert.False(t, s.CanCommit())
}

func TestMutations_DiscountPlusOnePaymentAdjusts(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodDiscount, Amount: dec("20")},
		{Method: enum.PaymentMethodCash, Amount: dec("100")},
	}
	s, _ := openWith(t, order)

	require.NoError(t, s.AddMeal(sodaID))

	payments := s.Payments()
	assertDecimal(t, "20", payments[0].Amount)
	assertDecimal(t, "107.25", payments[1].Amount)
	assert.True(t, s.Reconciled())
}

// Gross maintained across mutations must equal a from-scratch sum, and a
// single payment must stay reconciled throughout.
func TestMutations_RandomSequenceStaysConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, _ := openWith(t, baseOrder())
	ids := []uuid.UUID{adultID, childID}
	meals := []uuid.UUID{burgerID, sodaID}

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			_ = s.AddTicket(ids[rng.Intn(len(ids))])
		case 1:
			_ = s.RemoveTicket(ids[rng.Intn(len(ids))])
		case 2:
			_ = s.AddMeal(meals[rng.Intn(len(meals))])
		case 3:
			_ = s.RemoveMeal(meals[rng.Intn(len(meals))])
		}

		want := decimal.Zero
		for _, line := range s.Tickets() {
			want = want.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		for _, line := range s.Meals() {
			want = want.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		require.True(t, s.Gross().Sub(want).Abs().LessThan(dec("0.01")),
			"step %d: gross %s, recomputed %s", i, s.Gross(), want)
		require.True(t, s.Reconciled(), "step %d: single payment drifted", i)
	}
}

// --- Payments ---

func TestSetPaymentAmount_ParsesInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"80", "80"},
		{" 12.345 ", "12.35"},
		{"abc", "0"},
		{"", "0"},
		{"-5", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, _ := openWith(t, baseOrder())
			require.NoError(t, s.SetPaymentAmount(0, tt.input))
			assertDecimal(t, tt.want, s.Payments()[0].Amount)
		})
	}
}

func TestSetPaymentAmount_DiscountClampedToGross(t *testing.T) {
	order := baseOrder()
	order.Payments = append(order.Payments, Payment{Method: enum.PaymentMethodDiscount, Amount: decimal.Zero})
	s, rec := openWith(t, order)

	require.NoError(t, s.SetPaymentAmount(1, "500"))

	assertDecimal(t, "120", s.Payments()[1].Amount)
	assertDecimal(t, "0", s.Net())
	assert.Equal(t, LevelWarning, rec.last().Level)
	assert.ErrorIs(t, rec.last().Err, ErrDiscountExceedsGross)
}

func TestSetPaymentAmount_DiscountsBeyondGrossRejected(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodDiscount, Amount: dec("100")},
		{Method: enum.PaymentMethodCash, Amount: dec("20")},
		{Method: enum.PaymentMethodDiscount, Amount: decimal.Zero},
	}
	s, _ := openWith(t, order)

	err := s.SetPaymentAmount(2, "50")

	assert.ErrorIs(t, err, ErrNegativeTotal)
	assertDecimal(t, "0", s.Payments()[2].Amount)
	assertDecimal(t, "20", s.Net())
}

func TestSetPaymentMethod_DiscountBoundaryRecomputes(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodCash, Amount: dec("100")},
		{Method: enum.PaymentMethodVisa, Amount: dec("20")},
	}
	s, _ := openWith(t, order)

	require.NoError(t, s.SetPaymentMethod(1, enum.PaymentMethodDiscount))
	assertDecimal(t, "20", s.Discount())
	assertDecimal(t, "100", s.Net())
	assert.True(t, s.Reconciled())

	require.NoError(t, s.SetPaymentMethod(1, enum.PaymentMethodMobileWallet))
	assertDecimal(t, "0", s.Discount())
	assertDecimal(t, "120", s.Net())
}

func TestSetPaymentMethod_NegativeNetReverts(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodDiscount, Amount: dec("100")},
		{Method: enum.PaymentMethodCash, Amount: dec("50")},
	}
	s, _ := openWith(t, order)

	err := s.SetPaymentMethod(1, enum.PaymentMethodDiscount)

	assert.ErrorIs(t, err, ErrNegativeTotal)
	assert.Equal(t, enum.PaymentMethodCash, s.Payments()[1].Method)
	assertDecimal(t, "100", s.Discount())
}

func TestSetPaymentMethod_Invalid(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	assert.ErrorIs(t, s.SetPaymentMethod(0, "bitcoin"), ErrInvalidPaymentMethod)
	assert.ErrorIs(t, s.SetPaymentMethod(3, enum.PaymentMethodCash), ErrPaymentNotFound)
	assert.Equal(t, enum.PaymentMethodCash, s.Payments()[0].Method)
}

func TestSetPaymentMethod_CatalogRestrictsMethods(t *testing.T) {
	cat := testCatalog()
	cat.PaymentMethods = []enum.PaymentMethodOption{{Value: "cash", Label: "Cash"}, {Value: "voucher", Label: "Voucher"}}
	s := Open(baseOrder(), cat)

	assert.NoError(t, s.SetPaymentMethod(0, "voucher"))
	assert.ErrorIs(t, s.SetPaymentMethod(0, enum.PaymentMethodVisa), ErrInvalidPaymentMethod)
}

func TestAddPayment_Remaining(t *testing.T) {
	order := baseOrder()
	order.Payments[0].Amount = dec("90")
	s, _ := openWith(t, order)

	require.NoError(t, s.AddPayment())

	payments := s.Payments()
	require.Len(t, payments, 2)
	assert.Equal(t, enum.PaymentMethodCash, payments[1].Method)
	assertDecimal(t, "30", payments[1].Amount)
	assert.True(t, s.Reconciled())
}

func TestAddPayment_Overpaid(t *testing.T) {
	order := baseOrder()
	order.Payments[0].Amount = dec("150")
	s, _ := openWith(t, order)

	require.NoError(t, s.AddPayment())
	assertDecimal(t, "0", s.Payments()[1].Amount)
}

func TestAddPayment_Limit(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	for i := 1; i < enum.MaxPaymentsPerOrder; i++ {
		require.NoError(t, s.AddPayment())
	}

	assert.ErrorIs(t, s.AddPayment(), ErrTooManyPayments)
	assert.Len(t, s.Payments(), enum.MaxPaymentsPerOrder)
}

func TestRemovePayment_LastRequired(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	assert.ErrorIs(t, s.RemovePayment(0), ErrLastPaymentRequired)
	assert.Len(t, s.Payments(), 1)
}

func TestRemovePayment_DiscountBlocksCommit(t *testing.T) {
	order := Order{
		ID: uuid.New(),
		Tickets: []TicketLine{
			{TicketTypeID: adultID, Category: "Adult", Price: dec("50"), Quantity: 2},
		},
		Payments: []Payment{
			{Method: enum.PaymentMethodDiscount, Amount: dec("20")},
			{Method: enum.PaymentMethodCash, Amount: dec("80")},
		},
	}
	s, _ := openWith(t, order)
	assertDecimal(t, "80", s.Net())
	require.True(t, s.Reconciled())

	require.NoError(t, s.RemovePayment(0))

	assertDecimal(t, "100", s.Net())
	payments := s.Payments()
	require.Len(t, payments, 1)
	assertDecimal(t, "80", payments[0].Amount, "removal must not auto-adjust")
	assert.False(t, s.CanCommit())

	t.Run("raise cash", func(t *testing.T) {
		require.NoError(t, s.SetPaymentAmount(0, "99.995"))
		assert.True(t, s.CanCommit())
	})
}

func TestRemovePayment_AddPaymentCoversGap(t *testing.T) {
	order := Order{
		ID:      uuid.New(),
		Tickets: []TicketLine{{TicketTypeID: adultID, Price: dec("50"), Quantity: 2}},
		Payments: []Payment{
			{Method: enum.PaymentMethodDiscount, Amount: dec("20")},
			{Method: enum.PaymentMethodCash, Amount: dec("80")},
		},
	}
	s, _ := openWith(t, order)

	require.NoError(t, s.RemovePayment(0))
	require.NoError(t, s.AddPayment())

	assertDecimal(t, "20", s.Payments()[1].Amount)
	assert.True(t, s.CanCommit())
}

// --- Commit gate ---

func TestChanged_PaymentEditedBack(t *testing.T) {
	s, _ := openWith(t, baseOrder())

	require.NoError(t, s.SetPaymentAmount(0, "100"))
	assert.True(t, s.Changed())
	require.NoError(t, s.SetPaymentAmount(0, "120.00"))
	assert.False(t, s.Changed())
	assert.False(t, s.CanCommit())
}

func TestCanCommit_Tolerance(t *testing.T) {
	order := baseOrder()
	order.Payments = []Payment{
		{Method: enum.PaymentMethodCash, Amount: dec("100")},
		{Method: enum.PaymentMethodVisa, Amount: dec("19")},
	}
	s, _ := openWith(t, order)
	assert.False(t, s.CanCommit())

	require.NoError(t, s.SetPaymentAmount(1, "19.99"))
	assert.False(t, s.CanCommit(), "a full cent short is not reconciled")

	require.NoError(t, s.SetPaymentAmount(1, "20"))
	assert.True(t, s.CanCommit())
}

// --- Save ---

type fakeUpdater struct {
	mu      sync.Mutex
	calls   []UpdateRequest
	result  *UpdateResult
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeUpdater) UpdateOrder(_ context.Context, req UpdateRequest) (*UpdateResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &UpdateResult{OrderID: req.OrderID}, nil
}

func TestSave_Success(t *testing.T) {
	s, rec := openWith(t, baseOrder())
	require.NoError(t, s.AddTicket(adultID))
	u := &fakeUpdater{result: &UpdateResult{TotalAmount: dec("170"), NetAmount: dec("170")}}

	result, err := s.Save(context.Background(), u)

	require.NoError(t, err)
	assertDecimal(t, "170", result.TotalAmount)
	require.Len(t, u.calls, 1)
	assert.Equal(t, s.OrderID(), u.calls[0].OrderID)
	assert.Equal(t, []TicketDelta{{TicketTypeID: adultID, Quantity: 1}}, u.calls[0].Diff.AddedTickets)
	require.Len(t, u.calls[0].Payments, 1)
	assertDecimal(t, "170", u.calls[0].Payments[0].Amount)
	assert.Equal(t, LevelInfo, rec.last().Level)

	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.AddTicket(adultID), ErrSessionClosed)
	_, err = s.Save(context.Background(), u)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSave_PartialRemovalWarns(t *testing.T) {
	s, rec := openWith(t, baseOrder())
	require.NoError(t, s.RemoveTicket(adultID))
	u := &fakeUpdater{result: &UpdateResult{
		RemovedTickets: []Removal{{ID: adultID, Requested: 1, Removed: 0}},
	}}

	_, err := s.Save(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, LevelWarning, rec.last().Level)
}

func TestSave_NotCommittable(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	u := &fakeUpdater{}

	_, err := s.Save(context.Background(), u)

	assert.ErrorIs(t, err, ErrNotCommittable)
	assert.Empty(t, u.calls)
	assert.False(t, s.Closed())
}

func TestSave_FailureKeepsSessionOpen(t *testing.T) {
	s, rec := openWith(t, baseOrder())
	require.NoError(t, s.AddMeal(sodaID))
	serverErr := errors.New("internal server error")
	u := &fakeUpdater{err: serverErr}

	_, err := s.Save(context.Background(), u)

	assert.ErrorIs(t, err, serverErr)
	assert.False(t, s.Closed())
	assert.Equal(t, LevelError, rec.last().Level)
	assert.Len(t, s.Diff().AddedMeals, 1)
	assert.True(t, s.CanCommit())

	u.err = nil
	_, err = s.Save(context.Background(), u)
	require.NoError(t, err)
	assert.Len(t, u.calls, 2)
}

func TestSave_InFlightBlocksEdits(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	require.NoError(t, s.AddTicket(adultID))
	u := &fakeUpdater{block: make(chan struct{}), started: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), u)
		done <- err
	}()

	select {
	case <-u.started:
	case <-time.After(2 * time.Second):
		t.Fatal("save never reached the updater")
	}

	assert.ErrorIs(t, s.AddTicket(adultID), ErrSaveInFlight)
	_, err := s.Save(context.Background(), u)
	assert.ErrorIs(t, err, ErrSaveInFlight)
	assert.False(t, s.CanCommit())

	close(u.block)
	require.NoError(t, <-done)
	assert.True(t, s.Closed())
}

func TestCancel(t *testing.T) {
	s, _ := openWith(t, baseOrder())
	s.Cancel()

	assert.ErrorIs(t, s.AddMeal(burgerID), ErrSessionClosed)
	assert.False(t, s.CanCommit())
}
