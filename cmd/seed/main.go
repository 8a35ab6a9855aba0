package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/splashpos/backoffice/internal/config"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

type ticketTypeSeed struct {
	category    string
	subcategory string
	price       string
}

type mealSeed struct {
	name     string
	category string
	price    string
}

var ticketTypeSeeds = []ticketTypeSeed{
	{"Adult", "Weekday", "150.00"},
	{"Adult", "Weekend", "200.00"},
	{"Child", "Weekday", "100.00"},
	{"Child", "Weekend", "130.00"},
	{"Senior", "Any day", "90.00"},
}

var mealSeeds = []mealSeed{
	{"Chicken Burger", "Food", "85.00"},
	{"Beef Burger", "Food", "95.00"},
	{"Fries", "Food", "35.00"},
	{"Water", "Drinks", "15.00"},
	{"Soda", "Drinks", "25.00"},
	{"Ice Cream", "Dessert", "30.00"},
}

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	stock := flag.Int("stock", 100, "Available tickets to keep per ticket type")
	demo := flag.Bool("demo-order", false, "Also create a sample order")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@splashpos.local"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Park Admin"
	}

	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Seed in one transaction so a failed run leaves nothing behind
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)

	admin, err := seedAdmin(ctx, q, *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := seedTicketTypes(ctx, q, int32(*stock)); err != nil {
		log.Fatalf("Failed to seed ticket types: %v", err)
	}
	if err := seedMeals(ctx, q); err != nil {
		log.Fatalf("Failed to seed meals: %v", err)
	}
	if err := seedPaymentMethods(ctx, q); err != nil {
		log.Fatalf("Failed to seed payment methods: %v", err)
	}
	if *demo {
		if err := seedDemoOrder(ctx, q, admin); err != nil {
			log.Fatalf("Failed to seed demo order: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Admin ID: %s", admin.ID)
}

func seedAdmin(ctx context.Context, q *database.Queries, email, password, fullName string) (database.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := q.UpsertUser(ctx, database.UpsertUserParams{
		Email:        strings.ToLower(email),
		PasswordHash: string(hashed),
		FullName:     fullName,
		Role:         enum.UserRoleAdmin,
	})
	if err != nil {
		return database.User{}, fmt.Errorf("upsert user: %w", err)
	}
	log.Printf("Admin '%s' ready (ID: %s)", user.Email, user.ID)
	return user, nil
}

// seedTicketTypes upserts the ticket catalog and tops each type's available
// inventory up to stock.
func seedTicketTypes(ctx context.Context, q *database.Queries, stock int32) error {
	for _, s := range ticketTypeSeeds {
		tt, err := q.UpsertTicketType(ctx, database.UpsertTicketTypeParams{
			Category:    s.category,
			Subcategory: s.subcategory,
			Price:       numeric(s.price),
		})
		if err != nil {
			return fmt.Errorf("upsert %s/%s: %w", s.category, s.subcategory, err)
		}
		log.Printf("Ticket type %s/%s at %s", tt.Category, tt.Subcategory, s.price)
	}

	rows, err := q.ListTicketTypes(ctx)
	if err != nil {
		return fmt.Errorf("list ticket types: %w", err)
	}
	for _, tt := range rows {
		missing := stock - tt.AvailableCount
		if missing <= 0 {
			continue
		}
		n, err := q.CreateAvailableTickets(ctx, database.CreateAvailableTicketsParams{
			TicketTypeID: tt.ID,
			Count:        missing,
		})
		if err != nil {
			return fmt.Errorf("stock %s/%s: %w", tt.Category, tt.Subcategory, err)
		}
		log.Printf("Added %d available %s/%s tickets", n, tt.Category, tt.Subcategory)
	}
	return nil
}

func seedMeals(ctx context.Context, q *database.Queries) error {
	for _, s := range mealSeeds {
		if _, err := q.UpsertMeal(ctx, database.UpsertMealParams{
			Name:     s.name,
			Category: s.category,
			Price:    numeric(s.price),
		}); err != nil {
			return fmt.Errorf("upsert meal %s: %w", s.name, err)
		}
	}
	log.Printf("Seeded %d meals", len(mealSeeds))
	return nil
}

func seedPaymentMethods(ctx context.Context, q *database.Queries) error {
	for i, m := range enum.DefaultPaymentMethods {
		if err := q.UpsertPaymentMethod(ctx, database.UpsertPaymentMethodParams{
			Value:     m.Value,
			Label:     m.Label,
			SortOrder: int32(i),
		}); err != nil {
			return fmt.Errorf("upsert payment method %s: %w", m.Value, err)
		}
	}
	log.Printf("Seeded %d payment methods", len(enum.DefaultPaymentMethods))
	return nil
}

// seedDemoOrder creates an order for two tickets of the first type and one of
// the first meal, paid in cash.
func seedDemoOrder(ctx context.Context, q *database.Queries, cashier database.User) error {
	types, err := q.ListTicketTypes(ctx)
	if err != nil {
		return fmt.Errorf("list ticket types: %w", err)
	}
	meals, err := q.ListMeals(ctx)
	if err != nil {
		return fmt.Errorf("list meals: %w", err)
	}
	if len(types) == 0 || len(meals) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	tt, meal := types[0], meals[0]

	ticketPrice := toDecimal(tt.Price)
	mealPrice := toDecimal(meal.Price)
	total := ticketPrice.Mul(decimal.NewFromInt(2)).Add(mealPrice)

	order, err := q.CreateOrder(ctx, database.CreateOrderParams{
		CashierID:   cashier.ID,
		Description: pgtype.Text{String: "demo order", Valid: true},
		TotalAmount: numeric(total.StringFixed(2)),
		NetAmount:   numeric(total.StringFixed(2)),
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	orderRef := pgtype.UUID{Bytes: order.ID, Valid: true}
	for i := 0; i < 2; i++ {
		if _, err := q.ClaimAvailableTicket(ctx, database.ClaimAvailableTicketParams{
			OrderID:      orderRef,
			SoldPrice:    tt.Price,
			TicketTypeID: tt.ID,
		}); err != nil {
			return fmt.Errorf("claim ticket: %w", err)
		}
	}
	if _, err := q.AddOrderMeal(ctx, database.AddOrderMealParams{
		OrderID:  order.ID,
		MealID:   meal.ID,
		Quantity: 1,
		Price:    meal.Price,
	}); err != nil {
		return fmt.Errorf("add meal: %w", err)
	}
	if _, err := q.CreatePayment(ctx, database.CreatePaymentParams{
		OrderID: order.ID,
		Method:  enum.PaymentMethodCash,
		Amount:  order.TotalAmount,
	}); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	log.Printf("Created demo order %s for %s", order.ID, total.StringFixed(2))
	return nil
}

func numeric(s string) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		log.Fatalf("invalid price %q: %v", s, err)
	}
	return n
}

func toDecimal(n pgtype.Numeric) decimal.Decimal {
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
