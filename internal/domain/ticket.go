package domain

import (
	"errors"
	"time"
)

var ErrTicketNotFound = errors.New("ticket not found")

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// Money is an amount in whole currency units. Amounts are integral in
// this system; tickets are not priced in fractions.
type Money struct {
	Value    int64    `json:"value"`
	Currency Currency `json:"currency"`
}

type Ticket struct {
	ID            string
	Title         string
	Price         Money
	FromLocation  string
	ToLocation    string
	ToLocationURL string
	CreatedAt     time.Time
}
