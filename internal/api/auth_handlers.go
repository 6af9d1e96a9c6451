package api

import (
	"log"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
)

// LoginPage renders the login form.
func (h *Handlers) LoginPage(c *gin.Context) {
	// A valid session skips the form entirely.
	if h.codec.FromRequest(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "pages/login.html", pongo2.Context{
		"Title": "Login",
	})
}

// Login checks the posted credentials, issues the session cookie and sends
// the browser home. Bad credentials re-render the form with a message
// instead of an error page.
func (h *Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.directory.Authenticate(username, password)
	if err != nil {
		h.renderer.HTML(c, http.StatusUnauthorized, "pages/login.html", pongo2.Context{
			"Title": "Login",
			"Error": "Invalid username or password",
		})
		return
	}

	token, err := h.codec.Encrypt(*user)
	if err != nil {
		log.Printf("auth: sign session for %s: %v", username, err)
		h.renderer.HTML(c, http.StatusInternalServerError, "pages/login.html", pongo2.Context{
			"Title": "Login",
			"Error": "Could not create a session, try again",
		})
		return
	}

	h.codec.SetCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout destroys the session cookie and returns to the login page.
func (h *Handlers) Logout(c *gin.Context) {
	h.codec.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
