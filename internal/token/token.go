// Package token issues and verifies the signed bearer tokens used by the
// API. Tokens are stateless: validity is determined only by signature and
// expiry, never by server-side state, so a token that leaks stays valid
// until it expires.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kanatbekov/ticket-booking/internal/domain"
)

const (
	defaultAccessTTL  = 2 * time.Hour
	defaultRefreshTTL = 24 * time.Hour
)

// Claims carries the identity baked into every token. Subject holds the
// user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Pair is an access/refresh token pair issued together.
type Pair struct {
	Access  string
	Refresh string
}

// Service signs and verifies tokens. Access and refresh tokens use
// independent secrets so a leaked refresh secret does not compromise
// routine authorization and vice versa.
type Service struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(accessKey, refreshKey []byte) *Service {
	return &Service{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
}

// IssuePair mints a fresh access/refresh pair carrying {email, user id}.
func (s *Service) IssuePair(userID, email string) (Pair, error) {
	access, err := s.sign(userID, email, s.accessKey, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(userID, email, s.refreshKey, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess validates raw against the access secret and returns its
// claims. Any failure (bad signature, expired, malformed) maps to
// domain.ErrTokenInvalid.
func (s *Service) VerifyAccess(raw string) (*Claims, error) {
	return s.verify(raw, s.accessKey)
}

// VerifyRefresh validates raw against the refresh secret.
func (s *Service) VerifyRefresh(raw string) (*Claims, error) {
	return s.verify(raw, s.refreshKey)
}

func (s *Service) sign(userID, email string, key []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func (s *Service) verify(raw string, key []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
