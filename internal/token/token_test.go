package token_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/token"
)

const (
	testAccessKey  = "access-test-secret-at-least-32-chars!"
	testRefreshKey = "refresh-test-secret-at-least-32-chars"
)

func newService() *token.Service {
	return token.NewService([]byte(testAccessKey), []byte(testRefreshKey))
}

func TestIssuePair_RoundTrip(t *testing.T) {
	pair, err := newService().IssuePair("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	access, err := newService().VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.Subject != "user-1" || access.Email != "jane@example.com" {
		t.Errorf("access claims = {%s %s}, want {user-1 jane@example.com}", access.Subject, access.Email)
	}

	refresh, err := newService().VerifyRefresh(pair.Refresh)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.Subject != "user-1" || refresh.Email != "jane@example.com" {
		t.Errorf("refresh claims = {%s %s}, want {user-1 jane@example.com}", refresh.Subject, refresh.Email)
	}
}

// Access and refresh tokens are signed with independent secrets, so one
// must never verify as the other.
func TestVerify_SecretsNotInterchangeable(t *testing.T) {
	pair, err := newService().IssuePair("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := newService().VerifyAccess(pair.Refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("VerifyAccess(refresh token) err = %v, want ErrTokenInvalid", err)
	}
	if _, err := newService().VerifyRefresh(pair.Access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("VerifyRefresh(access token) err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyAccess_TamperedSignature(t *testing.T) {
	pair, err := newService().IssuePair("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	tampered := pair.Access[:len(pair.Access)-2] + "xx"
	if tampered == pair.Access {
		tampered = pair.Access[:len(pair.Access)-2] + "yy"
	}

	if _, err := newService().VerifyAccess(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	expired := signRaw(t, []byte(testAccessKey), jwt.MapClaims{
		"sub":   "user-1",
		"email": "jane@example.com",
		"iat":   time.Now().Add(-3 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := newService().VerifyAccess(expired); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyAccess_MissingSubject(t *testing.T) {
	noSub := signRaw(t, []byte(testAccessKey), jwt.MapClaims{
		"email": "jane@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	if _, err := newService().VerifyAccess(noSub); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyAccess_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not.a.jwt", strings.Repeat("x", 64)} {
		if _, err := newService().VerifyAccess(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("VerifyAccess(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func signRaw(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}
