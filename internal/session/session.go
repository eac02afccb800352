package session

import (
	"context"
	"sync"

	"newsbalance/internal/api"
)

// Listener is notified after every auth state change.
type Listener func(user api.User, loggedIn bool)

// Store holds the client-side view of the authenticated session. It mirrors
// what the backend's session cookie says, but only changes through explicit
// Login/Logout/Hydrate calls; it never mutates itself in the background.
type Store struct {
	mu        sync.RWMutex
	user      api.User
	loggedIn  bool
	nextID    int
	listeners map[int]Listener
}

// NewStore returns an empty, logged-out store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// IsLoggedIn reports whether a user is currently authenticated.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Nickname returns the logged-in user's nickname, or "" when logged out.
func (s *Store) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loggedIn {
		return ""
	}
	return s.user.Nickname
}

// User returns a copy of the current user and whether one is logged in.
func (s *Store) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.loggedIn
}

// Login records a successful authentication.
func (s *Store) Login(user api.User) {
	s.mu.Lock()
	s.user = user
	s.loggedIn = true
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user, true)
	}
}

// Logout clears the local auth state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = api.User{}
	s.loggedIn = false
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(api.User{}, false)
	}
}

// Subscribe registers a listener for auth changes and returns a cancel
// function. Listeners run synchronously on the goroutine that mutates the
// store.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Hydrate asks the backend who owns the current session cookie and adopts
// the answer. A failed check leaves the store logged out; startup should
// not break when the backend is unreachable.
func (s *Store) Hydrate(ctx context.Context, client *api.Client) {
	user, err := client.Me(ctx)
	if err != nil {
		return
	}
	s.Login(*user)
}

// snapshotListeners must be called with mu held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}
