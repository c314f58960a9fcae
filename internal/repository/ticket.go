package repository

import (
	"context"

	"github.com/kanatbekov/ticket-booking/internal/domain"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
}
