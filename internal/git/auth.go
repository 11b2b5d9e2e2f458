package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Credentials are optional HTTP credentials for the remote.
type Credentials struct {
	Username string
	Token    string
}

// authMethod returns nil when no token is configured so go-git falls back to anonymous access.
func (c Credentials) authMethod() transport.AuthMethod {
	if c.Token == "" {
		return nil
	}
	user := c.Username
	if user == "" {
		user = "git"
	}
	return &http.BasicAuth{Username: user, Password: c.Token}
}
