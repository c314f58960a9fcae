package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrEmailInvalid      = errors.New("email must contain the '@' symbol")
	ErrPasswordWeak      = errors.New("password must be at least 6 characters long and contain at least one number")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrTokenInvalid      = errors.New("token is invalid or expired")
	ErrAlreadyOwned      = errors.New("user already bought this ticket")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("balance currency does not match ticket currency")
)

type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	BoughtTickets []string
	Balance       Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owns reports whether the user already purchased the given ticket.
func (u *User) Owns(ticketID string) bool {
	for _, id := range u.BoughtTickets {
		if id == ticketID {
			return true
		}
	}
	return false
}
