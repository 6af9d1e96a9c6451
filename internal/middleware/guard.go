// Package middleware holds the request-level gin middleware: the access
// guard, request logging and prometheus metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidsparadise/kp-erp/internal/apierrors"
	"github.com/kidsparadise/kp-erp/internal/session"
)

// Context keys set by the guard for downstream handlers.
const (
	CtxUser = "session_user"
)

// publicPaths bypass authentication entirely.
var publicPaths = map[string]bool{
	"/login":       true,
	"/healthz":     true,
	"/metrics":     true,
	"/favicon.ico": true,
}

func isPublic(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, "/static/")
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// Guard is the per-request access gate. The checks are a fixed ordered
// chain: public allow-list, then authentication, then role authorization.
// Authentication is always decided before any role check.
func Guard(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isPublic(path) {
			c.Next()
			return
		}

		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			deny(c, path)
			return
		}

		user := codec.Decrypt(token)
		if user == nil {
			// Expired or tampered cookie; clear it so the browser stops
			// resending a dead token.
			codec.ClearCookie(c)
			deny(c, path)
			return
		}

		// Edit actions are admin-only.
		if strings.Contains(path, "/edit") && user.Role != session.RoleAdmin {
			redirectHome(c)
			return
		}

		// The data-sync tool is closed to viewers.
		if user.Role == session.RoleViewer && isDataSyncPath(path) {
			redirectHome(c)
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

func isDataSyncPath(path string) bool {
	return path == "/data-sync" || strings.HasPrefix(path, "/api/data-sync")
}

// deny ends an unauthenticated request: browsers get the login redirect,
// API calls a 401 body.
func deny(c *gin.Context, path string) {
	if isAPI(path) {
		apierrors.Error(c, apierrors.CodeUnauthorized)
	} else {
		c.Redirect(http.StatusSeeOther, "/login")
	}
	c.Abort()
}

// redirectHome ends a request that is authenticated but not authorized.
func redirectHome(c *gin.Context) {
	if isAPI(c.Request.URL.Path) {
		apierrors.Error(c, apierrors.CodeForbidden)
	} else {
		c.Redirect(http.StatusSeeOther, "/")
	}
	c.Abort()
}

// CurrentUser returns the session user the guard stored, nil on public
// paths.
func CurrentUser(c *gin.Context) *session.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	user, ok := v.(*session.User)
	if !ok {
		return nil
	}
	return user
}
