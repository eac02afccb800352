package guard

import (
	"context"
	"errors"
	"fmt"

	"newsbalance/internal/api"
	"newsbalance/internal/session"
)

// ErrLoginRequired is returned when a protected action is attempted without
// a live session. Callers can unwrap it to recover the action name and
// retry after logging in.
var ErrLoginRequired = errors.New("login required")

// Guard gates protected operations on a verified server session, not just
// the local auth flag.
type Guard struct {
	client  *api.Client
	session *session.Store
}

func New(client *api.Client, store *session.Store) *Guard {
	return &Guard{client: client, session: store}
}

// Require re-checks the server session before the named action. When the
// check fails the local state is cleared too, so a stale cookie can't keep
// the client looking logged in.
func (g *Guard) Require(ctx context.Context, action string) error {
	if !g.session.IsLoggedIn() {
		return fmt.Errorf("%s: %w", action, ErrLoginRequired)
	}

	user, err := g.client.Session(ctx)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			g.session.Logout()
			return fmt.Errorf("%s: %w", action, ErrLoginRequired)
		}
		return fmt.Errorf("session check failed: %w", err)
	}

	// The server may know a newer identity than we cached.
	g.session.Login(*user)
	return nil
}
