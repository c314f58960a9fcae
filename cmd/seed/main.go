// seed inserts demo tickets into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"

	"github.com/kanatbekov/ticket-booking/internal/infrastructure/postgres"
)

type ticketSpec struct {
	id       string
	title    string
	price    int64
	currency string
	from     string
	to       string
	photoURL string
}

// Fixed ids keep re-runs idempotent.
var tickets = []ticketSpec{
	{"7b0d12f4-0001-4a8e-9d32-1f6c1a3b9a01", "Weekend in Paris", 120, "EUR", "Berlin", "Paris", "https://images.example.com/paris.jpg"},
	{"7b0d12f4-0002-4a8e-9d32-1f6c1a3b9a02", "City break Amsterdam", 95, "EUR", "Vilnius", "Amsterdam", "https://images.example.com/amsterdam.jpg"},
	{"7b0d12f4-0003-4a8e-9d32-1f6c1a3b9a03", "London calling", 150, "GBP", "Dublin", "London", "https://images.example.com/london.jpg"},
	{"7b0d12f4-0004-4a8e-9d32-1f6c1a3b9a04", "New York explorer", 480, "USD", "London", "New York", "https://images.example.com/nyc.jpg"},
	{"7b0d12f4-0005-4a8e-9d32-1f6c1a3b9a05", "Rome in spring", 80, "EUR", "Munich", "Rome", "https://images.example.com/rome.jpg"},
	{"7b0d12f4-0006-4a8e-9d32-1f6c1a3b9a06", "Lisbon sunsets", 110, "EUR", "Madrid", "Lisbon", "https://images.example.com/lisbon.jpg"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	var inserted, skipped int
	for _, spec := range tickets {
		tag, err := pool.Exec(ctx, `
			INSERT INTO tickets (id, title, price_value, price_currency, from_location, to_location, to_location_photo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			spec.id, spec.title, spec.price, spec.currency, spec.from, spec.to, spec.photoURL,
		)
		if err != nil {
			log.Fatalf("insert ticket %q: %v", spec.title, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("seed done: %d inserted, %d skipped", inserted, skipped)
}
