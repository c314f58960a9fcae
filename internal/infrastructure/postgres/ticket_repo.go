package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kanatbekov/ticket-booking/internal/domain"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (title, price_value, price_currency, from_location, to_location, to_location_photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, title, price_value, price_currency,
		          from_location, to_location, to_location_photo_url, created_at`

	row := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Price.Value,
		ticket.Price.Currency,
		ticket.FromLocation,
		ticket.ToLocation,
		ticket.ToLocationURL,
	)

	created, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return created, nil
}

func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	query := `
		SELECT id::text, title, price_value, price_currency,
		       from_location, to_location, to_location_photo_url, created_at
		FROM tickets
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID, &t.Title, &t.Price.Value, &t.Price.Currency,
		&t.FromLocation, &t.ToLocation, &t.ToLocationURL, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &t, nil
}
