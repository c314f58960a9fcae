package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kanatbekov/ticket-booking/internal/domain"
)

const userColumns = `
	u.id::text, u.name, u.email, u.password_hash,
	u.balance_value, u.balance_currency,
	COALESCE(array_agg(p.ticket_id::text) FILTER (WHERE p.ticket_id IS NOT NULL), '{}'),
	u.created_at, u.updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, balance_value, balance_currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, name, email, password_hash,
		          balance_value, balance_currency, created_at, updated_at`

	created := &domain.User{BoughtTickets: []string{}}
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Balance.Value,
		user.Balance.Currency,
	).Scan(
		&created.ID, &created.Name, &created.Email, &created.PasswordHash,
		&created.Balance.Value, &created.Balance.Currency,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN purchases p ON p.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN purchases p ON p.user_id = u.id
		WHERE u.email = $1
		GROUP BY u.id`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN purchases p ON p.user_id = u.id
		GROUP BY u.id
		ORDER BY u.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PurchaseTicket runs the guarded debit inside a single transaction.
// The FOR UPDATE lock on the user row serializes concurrent purchases
// for the same user, so two requests can never both pass the funds
// check against a stale balance.
func (r *UserRepository) PurchaseTicket(ctx context.Context, userID, ticketID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance domain.Money
	err = tx.QueryRow(ctx,
		`SELECT balance_value, balance_currency FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance.Value, &balance.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	var price domain.Money
	err = tx.QueryRow(ctx,
		`SELECT price_value, price_currency FROM tickets WHERE id = $1`,
		ticketID,
	).Scan(&price.Value, &price.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTicketNotFound
		}
		return fmt.Errorf("load ticket: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO purchases (user_id, ticket_id) VALUES ($1, $2)
		ON CONFLICT (user_id, ticket_id) DO NOTHING`,
		userID, ticketID,
	)
	if err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyOwned
	}

	if balance.Currency != price.Currency {
		return domain.ErrCurrencyMismatch
	}
	if balance.Value < price.Value {
		return domain.ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET balance_value = balance_value - $1, updated_at = NOW() WHERE id = $2`,
		price.Value, userID,
	)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Balance.Value, &u.Balance.Currency, &u.BoughtTickets,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
