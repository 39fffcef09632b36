package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.NoError(t, VerifyPassword("hunter2", hash))
	require.Error(t, VerifyPassword("hunter3", hash))
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestFingerprint(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	fp := FingerprintToken(token)
	require.NotEqual(t, token, fp)
	require.Equal(t, fp, FingerprintToken(token))

	require.True(t, FingerprintEqual(fp, FingerprintToken(token)))
	require.False(t, FingerprintEqual(fp, FingerprintToken(token+"x")))
}

func TestGenerateOrgCode(t *testing.T) {
	code, err := GenerateOrgCode()
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
	}
}
