package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kanatbekov/ticket-booking/internal/cache"
	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/repository"
)

// TicketCache is the subset of the Redis cache the catalog needs.
// A nil cache disables caching entirely.
type TicketCache interface {
	GetTickets(ctx context.Context) ([]*domain.Ticket, error)
	SetTickets(ctx context.Context, tickets []*domain.Ticket) error
	InvalidateTickets(ctx context.Context) error
}

type TicketUsecase struct {
	repo   repository.TicketRepository
	cache  TicketCache
	logger *slog.Logger
}

func NewTicketUsecase(repo repository.TicketRepository, ticketCache TicketCache, logger *slog.Logger) *TicketUsecase {
	return &TicketUsecase{
		repo:   repo,
		cache:  ticketCache,
		logger: logger.With("component", "ticket_usecase"),
	}
}

type CreateTicketInput struct {
	Title         string
	Price         domain.Money
	FromLocation  string
	ToLocation    string
	ToLocationURL string
}

func (u *TicketUsecase) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	created, err := u.repo.Create(ctx, &domain.Ticket{
		Title:         input.Title,
		Price:         input.Price,
		FromLocation:  input.FromLocation,
		ToLocation:    input.ToLocation,
		ToLocationURL: input.ToLocationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if u.cache != nil {
		if err := u.cache.InvalidateTickets(ctx); err != nil {
			u.logger.WarnContext(ctx, "invalidate ticket cache", "error", err)
		}
	}
	return created, nil
}

// List returns the full catalog, served from the cache when warm. Cache
// failures degrade to the database silently.
func (u *TicketUsecase) List(ctx context.Context) ([]*domain.Ticket, error) {
	if u.cache != nil {
		tickets, err := u.cache.GetTickets(ctx)
		if err == nil {
			return tickets, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			u.logger.WarnContext(ctx, "ticket cache read", "error", err)
		}
	}

	tickets, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	if u.cache != nil {
		if err := u.cache.SetTickets(ctx, tickets); err != nil {
			u.logger.WarnContext(ctx, "ticket cache write", "error", err)
		}
	}
	return tickets, nil
}
