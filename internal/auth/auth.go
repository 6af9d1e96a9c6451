// Package auth resolves login credentials against the staff directory.
// The directory is a small fixed list: the dashboard has no user management
// of its own, the upstream store owns all customer identity.
package auth

import (
	"crypto/subtle"
	"errors"
	"os"
	"strings"

	"github.com/kidsparadise/kp-erp/internal/session"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
// A single error keeps login failures indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

type account struct {
	id       int
	username string
	password string
	role     string
}

// Directory authenticates staff users.
type Directory struct {
	accounts []account
}

// NewDirectory builds the staff directory. KPERP_USERS overrides the
// built-in accounts with comma-separated "username:password:role" entries.
func NewDirectory() *Directory {
	if raw := os.Getenv("KPERP_USERS"); raw != "" {
		var accounts []account
		for i, entry := range strings.Split(raw, ",") {
			parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
			if len(parts) != 3 || parts[0] == "" {
				continue
			}
			role := parts[2]
			if role != session.RoleAdmin && role != session.RoleViewer {
				role = session.RoleViewer
			}
			accounts = append(accounts, account{id: i + 1, username: parts[0], password: parts[1], role: role})
		}
		if len(accounts) > 0 {
			return &Directory{accounts: accounts}
		}
	}
	return &Directory{accounts: []account{
		{id: 1, username: "admin", password: "password", role: session.RoleAdmin},
		{id: 2, username: "viewer", password: "password", role: session.RoleViewer},
	}}
}

// Authenticate checks the credentials and returns the matching session user.
func (d *Directory) Authenticate(username, password string) (*session.User, error) {
	for _, a := range d.accounts {
		userOK := subtle.ConstantTimeCompare([]byte(a.username), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) == 1
		if userOK && passOK {
			return &session.User{ID: a.id, Username: a.username, Role: a.role}, nil
		}
	}
	return nil, ErrInvalidCredentials
}
