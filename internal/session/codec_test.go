package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	token, err := c.Encrypt(User{ID: 1, Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user := c.Decrypt(token)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestCodec_ExpiredTokenReturnsNil(t *testing.T) {
	// Negative-offset claims simulate a token whose window has elapsed.
	c := NewCodec("test-secret", time.Hour)
	now := time.Now()
	cl := claims{
		UserID:   2,
		Username: "viewer",
		Role:     RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Nil(t, c.Decrypt(token))
}

func TestCodec_TamperedTokenReturnsNil(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)
	token, err := c.Encrypt(User{ID: 1, Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)

	cases := map[string]string{
		"flipped payload byte": flipByte(token),
		"truncated":            token[:len(token)/2],
		"empty":                "",
		"garbage":              "not-a-token",
		"wrong secret":         mustSign(t, "other-secret"),
	}
	for name, tampered := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, c.Decrypt(tampered))
		})
	}
}

func TestCodec_RejectsUnexpectedSigningMethod(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	// alg=none tokens must never validate.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		UserID: 1, Username: "admin", Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	assert.Nil(t, c.Decrypt(unsigned))
}

func TestCodec_DefaultTTL(t *testing.T) {
	c := NewCodec("s", 0)
	assert.Equal(t, 24*time.Hour, c.TTL())
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	token, err := NewCodec(secret, time.Hour).Encrypt(User{ID: 1, Username: "admin", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return token
}

func flipByte(token string) string {
	// Flip a character in the payload segment, keeping the JWT shape.
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token + "x"
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
