package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func Test_Decode(t *testing.T) {
	t.Parallel()

	expiry := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"name":  "jordan",
		"roles": []string{"User", "Agent"},
		"exp":   expiry.Unix(),
	})

	claims, err := Decode(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "jordan", claims.Username)
	require.Equal(t, []string{"User", "Agent"}, claims.Roles)
	require.True(t, expiry.Equal(claims.ExpiresAt))
}

func Test_Decode_SingularRoleClaim(t *testing.T) {
	t.Parallel()

	claims, err := Decode(signedToken(t, jwt.MapClaims{
		"sub":  "agent-2",
		"role": "Agent",
	}))
	require.NoError(t, err)
	require.Equal(t, []string{"Agent"}, claims.Roles)
}

func Test_Decode_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Decode("not-a-token")
	require.ErrorIs(t, err, ErrMalformedToken)
}

func Test_Claims_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	c := &Claims{ExpiresAt: now.Add(time.Hour)}
	require.False(t, c.Expired(now))
	require.True(t, c.Expired(now.Add(2*time.Hour)))

	// No expiry claim means the token never expires locally.
	c = &Claims{}
	require.False(t, c.Expired(now))
}

func Test_Claims_HasRole(t *testing.T) {
	t.Parallel()

	c := &Claims{Roles: []string{"User"}}
	require.True(t, c.HasRole("User"))
	require.False(t, c.HasRole("Admin"))
}
