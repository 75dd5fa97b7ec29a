// Package token issues and verifies HS256 JSON Web Tokens.
package token

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultLeeway = 30 * time.Second
	ClaimUserID   = "user_id"
	ClaimEmail    = "email"
)

type Claims = jwt.MapClaims

type Service struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLeeway(d time.Duration) Option {
	return func(s *Service) {
		s.leeway = d
	}
}

func NewService(secret string, opts ...Option) *Service {
	s := &Service{
		secret: []byte(secret),
		leeway: DefaultLeeway,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs claims. iat is always set to now; exp defaults to iat+ttl
// unless the caller already provided one.
func (s *Service) Issue(claims Claims, ttl time.Duration) (string, error) {
	payload := make(Claims, len(claims)+2)
	maps.Copy(payload, claims)

	iat := s.now().Unix()
	payload["iat"] = iat
	if _, ok := payload["exp"]; !ok {
		payload["exp"] = iat + int64(ttl/time.Second)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	return claims, nil
}

// UserID extracts a positive user_id claim.
func UserID(claims Claims) (int64, bool) {
	switch v := claims[ClaimUserID].(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), true
		}
	case int64:
		if v > 0 {
			return v, true
		}
	case int:
		if v > 0 {
			return int64(v), true
		}
	}
	return 0, false
}
