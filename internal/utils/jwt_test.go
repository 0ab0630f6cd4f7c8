package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("s3cret", 7*24*time.Hour)
	tok, err := svc.Issue(42, "asha@example.com", "customer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), tok.Exp, time.Minute)

	claims, err := svc.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestIssueWithoutSecret(t *testing.T) {
	svc := NewTokenService("", time.Hour)
	_, err := svc.Issue(1, "a@example.com", "customer")
	require.ErrorIs(t, err, ErrMissingSecret)
	_, err = svc.Verify("whatever")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	tok, err := svc.Issue(1, "a@example.com", "customer")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(tok.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTampered(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)
	tok, err := svc.Issue(1, "a@example.com", "customer")
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	// swap the payload for one claiming admin
	forged, err := NewTokenService("other", time.Hour).Issue(1, "a@example.com", "admin")
	require.NoError(t, err)
	parts[1] = strings.Split(forged.Token, ".")[1]

	cases := map[string]string{
		"payload swapped": strings.Join(parts, "."),
		"wrong secret":    forged.Token,
		"garbage":         "not.a.jwt",
		"empty":           "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(raw)
			require.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)
	claims := Claims{
		ID: 1, Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	require.ErrorIs(t, err, ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
