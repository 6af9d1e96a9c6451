package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsparadise/kp-erp/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedRouter(t *testing.T, codec *session.Codec) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(Guard(codec))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/login", ok)
	r.GET("/healthz", ok)
	r.GET("/", ok)
	r.GET("/products", ok)
	r.GET("/products/:id/edit", ok)
	r.GET("/data-sync", ok)
	r.POST("/api/data-sync/verify", ok)
	r.GET("/api/dashboard/sales", ok)
	return r
}

func sessionCookie(t *testing.T, codec *session.Codec, role string) *http.Cookie {
	t.Helper()
	token, err := codec.Encrypt(session.User{ID: 1, Username: "u", Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func TestGuard_PublicPathsPassWithoutCookie(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	for _, path := range []string{"/login", "/healthz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestGuard_MissingCookieRedirectsToLogin(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGuard_InvalidCookieRedirectsAndClears(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tampered.token.value"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "dead session cookie should be cleared")
}

func TestGuard_ExpiredSessionRedirects(t *testing.T) {
	// Cookie signed by a codec whose window has already elapsed.
	short := session.NewCodec("secret", time.Nanosecond)
	token, err := short.Encrypt(session.User{ID: 1, Username: "u", Role: session.RoleAdmin})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	r := guardedRouter(t, session.NewCodec("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGuard_EditPathRequiresAdmin(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/products/7/edit", nil)
	req.AddCookie(sessionCookie(t, codec, session.RoleViewer))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/products/7/edit", nil)
	req.AddCookie(sessionCookie(t, codec, session.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuard_DataSyncClosedToViewers(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/data-sync", nil)
	req.AddCookie(sessionCookie(t, codec, session.RoleViewer))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The JSON API variant answers 403 instead of redirecting.
	req = httptest.NewRequest(http.MethodPost, "/api/data-sync/verify", nil)
	req.AddCookie(sessionCookie(t, codec, session.RoleViewer))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestGuard_APIPathsGet401JSONNotRedirect(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := guardedRouter(t, codec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/sales", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "core:unauthorized")
}

func TestGuard_StoresUserInContext(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	r := gin.New()
	r.Use(Guard(codec))
	var got *session.User
	r.GET("/whoami", func(c *gin.Context) {
		got = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie(t, codec, session.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.Equal(t, "u", got.Username)
	assert.Equal(t, session.RoleAdmin, got.Role)
}
