package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/token"
	"github.com/kanatbekov/ticket-booking/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	list           func(ctx context.Context) ([]*domain.User, error)
	purchaseTicket func(ctx context.Context, userID, ticketID string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx)
}

func (r *fakeUserRepo) PurchaseTicket(ctx context.Context, userID, ticketID string) error {
	return r.purchaseTicket(ctx, userID, ticketID)
}

type fakeEmailSender struct {
	sent chan string
}

func (s *fakeEmailSender) Send(_ context.Context, to, _, _ string) error {
	if s.sent != nil {
		s.sent <- to
	}
	return nil
}

// ---- helpers ----

const (
	testAccessKey  = "auth-test-access-secret-32-chars!!!!"
	testRefreshKey = "auth-test-refresh-secret-32-chars!!!"
)

var testBalance = domain.Money{Value: 500, Currency: domain.CurrencyEUR}

func newAuthUsecase(repo *fakeUserRepo, sender *fakeEmailSender) (*usecase.AuthUsecase, *token.Service) {
	tokens := token.NewService([]byte(testAccessKey), []byte(testRefreshKey))
	return usecase.NewAuthUsecase(repo, tokens, sender, testBalance, slog.Default()), tokens
}

// echoCreate returns the input as the created user with a fixed id.
func echoCreate(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	created.ID = "user-1"
	created.BoughtTickets = []string{}
	return &created, nil
}

// ---- SignUp ----

func TestSignUp_NormalizesName(t *testing.T) {
	var storedName string
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			storedName = user.Name
			return echoCreate(ctx, user)
		},
	}
	u, _ := newAuthUsecase(repo, &fakeEmailSender{})

	_, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "jOHN  smith",
		Email:    "john@example.com",
		Password: "abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedName != "John Smith" {
		t.Errorf("stored name = %q, want %q", storedName, "John Smith")
	}
}

func TestSignUp_RejectsEmailWithoutAt(t *testing.T) {
	var created int
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			created++
			return echoCreate(ctx, user)
		},
	}
	u, _ := newAuthUsecase(repo, &fakeEmailSender{})

	_, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "John Smith",
		Email:    "john.example.com",
		Password: "abc123",
	})
	if !errors.Is(err, domain.ErrEmailInvalid) {
		t.Fatalf("err = %v, want ErrEmailInvalid", err)
	}
	if created != 0 {
		t.Errorf("repo.Create called %d times before validation passed", created)
	}
}

func TestSignUp_PasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"abc12", true},  // too short
		{"abcdef", true}, // no digit
		{"abc123", false},
	}

	for _, tt := range tests {
		repo := &fakeUserRepo{create: echoCreate}
		u, _ := newAuthUsecase(repo, &fakeEmailSender{})

		_, err := u.SignUp(context.Background(), usecase.SignUpInput{
			Name:     "John Smith",
			Email:    "john@example.com",
			Password: tt.password,
		})
		if tt.wantErr && !errors.Is(err, domain.ErrPasswordWeak) {
			t.Errorf("password %q: err = %v, want ErrPasswordWeak", tt.password, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("password %q: unexpected error: %v", tt.password, err)
		}
	}
}

func TestSignUp_StoresHashNotPlaintext(t *testing.T) {
	const plaintext = "secret99"

	var storedHash string
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			storedHash = user.PasswordHash
			return echoCreate(ctx, user)
		},
	}
	u, _ := newAuthUsecase(repo, &fakeEmailSender{})

	_, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "John Smith",
		Email:    "john@example.com",
		Password: plaintext,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedHash == plaintext {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)); err != nil {
		t.Errorf("stored hash does not match original password: %v", err)
	}
}

// The server assigns the configured starting balance; whatever the client
// sent never reaches the repository.
func TestSignUp_AssignsConfiguredBalance(t *testing.T) {
	var storedBalance domain.Money
	var storedTickets []string
	repo := &fakeUserRepo{
		create: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			storedBalance = user.Balance
			storedTickets = user.BoughtTickets
			return echoCreate(ctx, user)
		},
	}
	u, _ := newAuthUsecase(repo, &fakeEmailSender{})

	_, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "John Smith",
		Email:    "john@example.com",
		Password: "abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedBalance != testBalance {
		t.Errorf("stored balance = %+v, want %+v", storedBalance, testBalance)
	}
	if len(storedTickets) != 0 {
		t.Errorf("stored tickets = %v, want empty", storedTickets)
	}
}

func TestSignUp_IssuesVerifiableTokenPair(t *testing.T) {
	repo := &fakeUserRepo{create: echoCreate}
	u, tokens := newAuthUsecase(repo, &fakeEmailSender{})

	result, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "John Smith",
		Email:    "john@example.com",
		Password: "abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := tokens.VerifyAccess(result.Tokens.Access)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "john@example.com" {
		t.Errorf("claims = {%s %s}, want {user-1 john@example.com}", claims.Subject, claims.Email)
	}
	if _, err := tokens.VerifyRefresh(result.Tokens.Refresh); err != nil {
		t.Errorf("refresh token does not verify: %v", err)
	}
}

func TestSignUp_SendsWelcomeEmail(t *testing.T) {
	repo := &fakeUserRepo{create: echoCreate}
	sender := &fakeEmailSender{sent: make(chan string, 1)}
	u, _ := newAuthUsecase(repo, sender)

	_, err := u.SignUp(context.Background(), usecase.SignUpInput{
		Name:     "John Smith",
		Email:    "john@example.com",
		Password: "abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if to := <-sender.sent; to != "john@example.com" {
		t.Errorf("welcome email sent to %q, want john@example.com", to)
	}
}

// ---- Login ----

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	u, _ := newAuthUsecase(&fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}, &fakeEmailSender{})

	_, errUnknown := u.Login(context.Background(), "nobody@example.com", "abc123")

	u2, _ := newAuthUsecase(&fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: "john@example.com", PasswordHash: hashOf(t, "abc123")}, nil
		},
	}, &fakeEmailSender{})

	_, errWrongPass := u2.Login(context.Background(), "john@example.com", "wrong99")

	if !errors.Is(errUnknown, domain.ErrAuthFailed) || !errors.Is(errWrongPass, domain.ErrAuthFailed) {
		t.Fatalf("errors differ: unknown=%v wrongPass=%v, both must be ErrAuthFailed", errUnknown, errWrongPass)
	}
}

func TestLogin_Success(t *testing.T) {
	u, tokens := newAuthUsecase(&fakeUserRepo{
		findByEmail: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: "john@example.com", PasswordHash: hashOf(t, "abc123")}, nil
		},
	}, &fakeEmailSender{})

	pair, err := u.Login(context.Background(), "john@example.com", "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tokens.VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
}

// ---- Refresh ----

func TestRefresh_MissingToken(t *testing.T) {
	u, _ := newAuthUsecase(&fakeUserRepo{}, &fakeEmailSender{})

	if _, err := u.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	u, tokens := newAuthUsecase(&fakeUserRepo{}, &fakeEmailSender{})

	pair, err := tokens.IssuePair("user-1", "john@example.com")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := u.Refresh(context.Background(), pair.Access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestRefresh_MintsNewPair(t *testing.T) {
	u, tokens := newAuthUsecase(&fakeUserRepo{}, &fakeEmailSender{})

	pair, err := tokens.IssuePair("user-1", "john@example.com")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	fresh, err := u.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := tokens.VerifyAccess(fresh.Access)
	if err != nil {
		t.Fatalf("new access token does not verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "john@example.com" {
		t.Errorf("claims = {%s %s}, want {user-1 john@example.com}", claims.Subject, claims.Email)
	}
}
