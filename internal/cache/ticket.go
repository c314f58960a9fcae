package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	ticketListKey = "tickets:all"

	// TicketListTTL bounds staleness if an invalidation is ever missed.
	TicketListTTL = 5 * time.Minute
)

var ErrCacheMiss = errors.New("cache miss")

// GetTickets retrieves the cached ticket catalog.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetTickets(ctx context.Context) ([]*domain.Ticket, error) {
	raw, err := c.client.Get(ctx, ticketListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var tickets []*domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, fmt.Errorf("decode cached tickets: %w", err)
	}
	return tickets, nil
}

// SetTickets stores the full ticket catalog.
func (c *Cache) SetTickets(ctx context.Context, tickets []*domain.Ticket) error {
	raw, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}
	if err := c.client.Set(ctx, ticketListKey, raw, TicketListTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateTickets drops the cached catalog after a ticket is created.
func (c *Cache) InvalidateTickets(ctx context.Context) error {
	if err := c.client.Del(ctx, ticketListKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
