package token

import (
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewService("secret", WithClock(fixedClock(now)))

	tok, err := svc.Issue(Claims{ClaimUserID: 7, ClaimEmail: "a@example.com"}, time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, float64(now.Unix()), claims["iat"])
	assert.Equal(t, float64(now.Add(time.Hour).Unix()), claims["exp"])
	assert.Equal(t, "a@example.com", claims[ClaimEmail])

	id, ok := UserID(claims)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestIssue_KeepsCallerExp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewService("secret", WithClock(fixedClock(now)))

	exp := now.Add(10 * time.Minute).Unix()
	tok, err := svc.Issue(Claims{"exp": exp}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, float64(exp), claims["exp"])
}

func TestVerify_Expiry(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	tok, err := NewService("secret", WithClock(fixedClock(issued))).Issue(Claims{ClaimUserID: 1}, time.Minute)
	require.NoError(t, err)

	withinLeeway := NewService("secret", WithClock(fixedClock(issued.Add(time.Minute+20*time.Second))))
	_, err = withinLeeway.Verify(tok)
	assert.NoError(t, err)

	expired := NewService("secret", WithClock(fixedClock(issued.Add(time.Minute+31*time.Second))))
	_, err = expired.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_NotBefore(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewService("secret", WithClock(fixedClock(now)))

	soon, err := svc.Issue(Claims{"nbf": now.Add(20 * time.Second).Unix()}, time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(soon)
	assert.NoError(t, err)

	later, err := svc.Issue(Claims{"nbf": now.Add(time.Minute).Unix()}, time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(later)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_IgnoresIssuedAtSkew(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewService("secret", WithClock(fixedClock(now)))

	tok := mustSign(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"iat":     now.Add(5 * time.Minute).Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}, "secret")
	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	id, ok := UserID(claims)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewService("secret", WithClock(fixedClock(now)))

	tok, err := svc.Issue(Claims{ClaimUserID: 1}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: mustSign(t, jwt.SigningMethodHS256, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}, "other")},
		{name: "unsupported alg", token: mustSign(t, jwt.SigningMethodHS512, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}, "secret")},
		{name: "tampered payload", token: tamper(tok)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestUserID(t *testing.T) {
	_, ok := UserID(Claims{})
	assert.False(t, ok)
	_, ok = UserID(Claims{ClaimUserID: "7"})
	assert.False(t, ok)
	_, ok = UserID(Claims{ClaimUserID: float64(-1)})
	assert.False(t, ok)
	_, ok = UserID(Claims{ClaimUserID: 1.5})
	assert.False(t, ok)
}

func mustSign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func tamper(tok string) string {
	parts := strings.Split(tok, ".")
	parts[1] = parts[1] + "A"
	return strings.Join(parts, ".")
}
