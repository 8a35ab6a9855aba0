package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	TicketStatusAvailable = "available"
	TicketStatusSold      = "sold"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleCashier = "CASHIER"
)

// ── Group B: Configurable labels (no DB constraint) ──

// Payment methods. The payment_methods table is the source of truth for the
// admin console; these are the values the back office knows how to treat.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodVisa         = "visa"
	PaymentMethodMobileWallet = "mobile_wallet"
	PaymentMethodPostponed    = "postponed"
	PaymentMethodDiscount     = "discount"
	PaymentMethodInstaPay     = "instapay"
	PaymentMethodFawry        = "fawry"
	PaymentMethodOther        = "other"
	PaymentMethodCredit       = "credit"
)

// PaymentMethodOption is a selectable payment method.
type PaymentMethodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DefaultPaymentMethods is served when the catalog is empty or unreachable.
var DefaultPaymentMethods = []PaymentMethodOption{
	{Value: PaymentMethodCash, Label: "Cash"},
	{Value: PaymentMethodVisa, Label: "Visa"},
	{Value: PaymentMethodMobileWallet, Label: "Mobile Wallet"},
	{Value: PaymentMethodPostponed, Label: "Postponed"},
	{Value: PaymentMethodDiscount, Label: "Discount"},
	{Value: PaymentMethodInstaPay, Label: "InstaPay"},
	{Value: PaymentMethodFawry, Label: "Fawry"},
	{Value: PaymentMethodOther, Label: "Other"},
	{Value: PaymentMethodCredit, Label: "Credit"},
}

// IsDiscount reports whether a payment method reduces the gross total
// instead of settling it.
func IsDiscount(method string) bool {
	return method == PaymentMethodDiscount
}

// ── Group D: Order limits ──

const (
	MaxTicketsPerType   = 50
	MaxMealsPerType     = 20
	MaxPaymentsPerOrder = 5
)
