package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/email"
	"github.com/kanatbekov/ticket-booking/internal/metrics"
	"github.com/kanatbekov/ticket-booking/internal/repository"
	"github.com/kanatbekov/ticket-booking/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthUsecase struct {
	users         repository.UserRepository
	tokens        *token.Service
	email         email.Sender
	logger        *slog.Logger
	signupBalance domain.Money
}

// NewAuthUsecase wires the registration/login/refresh flows.
// signupBalance is the operator-assigned starting balance; client-supplied
// balances are never trusted.
func NewAuthUsecase(users repository.UserRepository, tokens *token.Service, emailSender email.Sender, signupBalance domain.Money, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		tokens:        tokens,
		email:         emailSender,
		logger:        logger.With("component", "auth_usecase"),
		signupBalance: signupBalance,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignUpResult struct {
	User   *domain.User
	Tokens token.Pair
}

// SignUp validates and normalizes the input, hashes the password and
// creates the user with an empty purchase set and the configured starting
// balance. All validation happens before any persistence side effect.
func (u *AuthUsecase) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	name := normalizeName(input.Name)

	if !strings.Contains(input.Email, "@") {
		return nil, domain.ErrEmailInvalid
	}
	if !validPassword(input.Password) {
		return nil, domain.ErrPasswordWeak
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Balance:      u.signupBalance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	metrics.SignupsTotal.Inc()
	u.sendWelcome(ctx, user)

	return &SignUpResult{User: user, Tokens: pair}, nil
}

// Login authenticates by email and password and issues a fresh token
// pair. Unknown email and wrong password both map to
// domain.ErrAuthFailed so the response does not reveal which one it was.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (token.Pair, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return token.Pair{}, fmt.Errorf("find user: %w", err)
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return token.Pair{}, domain.ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return token.Pair{}, domain.ErrAuthFailed
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// The old refresh token stays valid until its natural expiry; there is no
// server-side revocation.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	if refreshToken == "" {
		return token.Pair{}, domain.ErrTokenInvalid
	}

	claims, err := u.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, domain.ErrTokenInvalid
	}

	pair, err := u.tokens.IssuePair(claims.Subject, claims.Email)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// sendWelcome emails the new user in the background. Failures are logged
// and never fail the registration.
func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	bg := context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(bg, 10*time.Second)
		defer cancel()

		subject := "Welcome aboard"
		body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Happy travels!</p>", user.Name)
		if err := u.email.Send(sendCtx, user.Email, subject, body); err != nil {
			u.logger.Warn("welcome email", "user_id", user.ID, "error", err)
		}
	}()
}

// normalizeName title-cases every whitespace-separated word:
// "jOHN  smith" becomes "John Smith".
func normalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
