// Package session signs and verifies the session cookie carried by every
// authenticated request. The token is a compact HS256 JWT with a fixed
// validity window; verification failures of any kind degrade to "no session".
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the browser cookie holding the signed session token.
const CookieName = "session"

// User is the identity embedded in a session token.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session user may perform write actions.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Roles attached to sessions.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

type claims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec. A non-positive ttl falls back to one day.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encrypt produces a signed, time-stamped token for the user.
func (c *Codec) Encrypt(u User) (string, error) {
	now := time.Now()
	cl := claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decrypt verifies signature and expiry and returns the embedded user.
// Any failure (malformed, expired, wrong signature, wrong algorithm)
// returns nil; the caller treats that as an absent session.
func (c *Codec) Decrypt(token string) *User {
	if token == "" {
		return nil
	}
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok {
		return nil
	}
	return &User{ID: cl.UserID, Username: cl.Username, Role: cl.Role}
}

// SetCookie issues the HTTP-only session cookie with max-age equal to the
// token lifetime.
func (c *Codec) SetCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, token, int(c.ttl.Seconds()), "/", "", false, true)
}

// ClearCookie destroys the session cookie.
func (c *Codec) ClearCookie(ctx *gin.Context) {
	ctx.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// FromRequest reads and verifies the session cookie, returning nil when the
// cookie is missing or invalid.
func (c *Codec) FromRequest(ctx *gin.Context) *User {
	token, err := ctx.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return c.Decrypt(token)
}
