// Package api contains the gin handlers for every page and JSON action of
// the dashboard, plus the pongo2 renderer they share.
package api

import (
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/kidsparadise/kp-erp/internal/middleware"
)

// Renderer renders pongo2 templates from a directory. Built once at startup
// and passed to the handler set; there is no package-level template state.
type Renderer struct {
	set *pongo2.TemplateSet
}

// NewRenderer creates a renderer rooted at dir.
func NewRenderer(dir string) (*Renderer, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, err
	}
	return &Renderer{set: pongo2.NewSet("kperp", loader)}, nil
}

// HTML renders a template with the given context. The session user and the
// request path are injected for the shared layout (navigation, role checks).
func (r *Renderer) HTML(c *gin.Context, status int, name string, ctx pongo2.Context) {
	tmpl, err := r.set.FromCache(name)
	if err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
		return
	}

	if ctx == nil {
		ctx = pongo2.Context{}
	}
	if _, ok := ctx["User"]; !ok {
		if user := middleware.CurrentUser(c); user != nil {
			ctx["User"] = user
		}
	}
	ctx["Path"] = c.Request.URL.Path

	out, err := tmpl.ExecuteBytes(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "render error: %v", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", out)
}
