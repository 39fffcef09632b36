package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner([]byte("secret"), "issuer", time.Minute)
	require.NoError(t, err)

	token, err := signer.Issue(42, "a@x.com", "admin", 7)
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)

	id, err := claims.EmployeeID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, int64(7), claims.OrgID)
	require.NotEmpty(t, claims.ID)
}

func TestSignerRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil, "issuer", time.Minute)
	require.Error(t, err)

	_, err = NewSigner([]byte("secret"), "issuer", 0)
	require.Error(t, err)
}

func TestVerifyCollapsesFailures(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner([]byte("secret"), "issuer", time.Minute)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewSigner([]byte("different"), "issuer", time.Minute)
		require.NoError(t, err)
		token, err := other.Issue(1, "a@x.com", "employee", 1)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewSigner([]byte("secret"), "someone-else", time.Minute)
		require.NoError(t, err)
		token, err := other.Issue(1, "a@x.com", "employee", 1)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := NewClaims(1, "a@x.com", "employee", 1, "issuer", time.Minute, time.Now().Add(-time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestEmployeeIDRequiresNumericSubject(t *testing.T) {
	t.Parallel()

	c := Claims{}
	c.Subject = "not-a-number"
	_, err := c.EmployeeID()
	require.ErrorIs(t, err, ErrInvalidToken)
}
