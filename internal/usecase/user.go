package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/metrics"
	"github.com/kanatbekov/ticket-booking/internal/repository"
)

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

func (u *UserUsecase) List(ctx context.Context) ([]*domain.User, error) {
	users, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// BuyTicket debits the user's balance and records the purchase. The
// repository executes the whole sequence atomically, so N concurrent
// attempts for the same ticket leave exactly one recorded purchase and
// the balance never goes negative.
func (u *UserUsecase) BuyTicket(ctx context.Context, userID, ticketID string) error {
	err := u.repo.PurchaseTicket(ctx, userID, ticketID)
	metrics.PurchasesTotal.WithLabelValues(purchaseOutcome(err)).Inc()
	if err != nil {
		return err
	}
	return nil
}

func purchaseOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAlreadyOwned):
		return "already_owned"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrTicketNotFound):
		return "not_found"
	default:
		return "error"
	}
}
