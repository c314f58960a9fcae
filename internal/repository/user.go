package repository

import (
	"context"

	"github.com/kanatbekov/ticket-booking/internal/domain"
)

// UseCase depends on interface, not concrete implementation.
// This way we get: 1) can swap DB later without touching usecase 2) We can pass a mock implementation of interface in tests
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)

	// PurchaseTicket performs the whole guarded purchase as one atomic
	// unit: lock the user, load the ticket, reject duplicates and
	// over-spends, debit the balance, record the purchase. Concurrent
	// purchases for the same user must serialize; the balance can never
	// go negative. Fails with domain.ErrUserNotFound,
	// domain.ErrTicketNotFound, domain.ErrAlreadyOwned,
	// domain.ErrCurrencyMismatch or domain.ErrInsufficientFunds.
	PurchaseTicket(ctx context.Context, userID, ticketID string) error
}
