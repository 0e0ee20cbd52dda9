package identity

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Provider exposes the current user identity. Identity is always an explicit
// injected dependency, never an ambient global, so tests can run arbitrary
// sign-in sequences deterministically.
type Provider interface {
	// CurrentUserID returns the signed-in user id, or false when no user
	// is signed in
	CurrentUserID() (string, bool)

	// Watch returns a channel that receives the user id on every identity
	// change; the empty string means signed out. The channel is released
	// when ctx is cancelled.
	Watch(ctx context.Context) <-chan string
}

// SessionManager is a Provider with explicit sign-in and sign-out
// transitions, driven by whatever authentication surface the application
// embeds this tracker in.
type SessionManager struct {
	mu       sync.RWMutex
	userID   string
	signedIn bool
	watchers map[*watcher]struct{}
}

type watcher struct {
	ch chan string
}

// NewSessionManager creates a session manager with no user signed in
func NewSessionManager() *SessionManager {
	return &SessionManager{
		watchers: make(map[*watcher]struct{}),
	}
}

// CurrentUserID returns the signed-in user id, or false when signed out
func (m *SessionManager) CurrentUserID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID, m.signedIn
}

// SignIn switches the session to the given user and notifies watchers.
// Signing in as the already-current user is a no-op.
func (m *SessionManager) SignIn(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.signedIn && m.userID == userID {
		return
	}

	m.userID = userID
	m.signedIn = true
	m.broadcast(userID)

	log.WithField("userId", userID).Info("User signed in")
}

// SignOut clears the session and notifies watchers with an empty id
func (m *SessionManager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.signedIn {
		return
	}

	log.WithField("userId", m.userID).Info("User signed out")

	m.userID = ""
	m.signedIn = false
	m.broadcast("")
}

// Watch registers a watcher for identity changes
func (m *SessionManager) Watch(ctx context.Context) <-chan string {
	w := &watcher{ch: make(chan string, 16)}

	m.mu.Lock()
	m.watchers[w] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, w)
		m.mu.Unlock()
	}()

	return w.ch
}

// broadcast notifies every watcher; callers hold m.mu, so there is a single
// sender and the drop-oldest fallback below is race free. Keeping the newest
// identity matters more than keeping every intermediate one.
func (m *SessionManager) broadcast(userID string) {
	for w := range m.watchers {
		select {
		case w.ch <- userID:
		default:
			select {
			case <-w.ch:
			default:
			}
			w.ch <- userID
		}
	}
}
