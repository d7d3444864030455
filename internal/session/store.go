package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/logger"
)

// Storage entry keys. The full payload and the bare token are kept as two
// independent entries so the request authorizer can read the token without
// deserializing the payload.
const (
	KeyUser      = "user"
	KeyAuthToken = "authToken"
)

// SignInRoute is where a cleared session lands after the signout notice.
const SignInRoute = "/login"

// Notifier receives user-visible notices raised by the store.
type Notifier interface {
	Notify(kind, title, message string)
}

// Navigator performs route changes on behalf of the store.
type Navigator interface {
	Navigate(path string)
}

// Store is the single source of truth for "who, if anyone, is signed in".
// All consumers read the current session through it; Commit and Clear are
// the only mutators. State survives restarts via the injected Storage.
type Store struct {
	mu       sync.RWMutex
	current  Session
	storage  Storage
	notifier Notifier
	nav      Navigator
	delay    time.Duration
	subs     []func(Session)
}

// Option configures optional Store collaborators.
type Option func(*Store)

// WithNotifier wires the user-visible notice sink.
func WithNotifier(n Notifier) Option { return func(s *Store) { s.notifier = n } }

// WithNavigator wires the route changer used after Clear.
func WithNavigator(n Navigator) Option { return func(s *Store) { s.nav = n } }

// WithSignoutDelay overrides the pause between the signout notice and the
// navigation to the sign-in route.
func WithSignoutDelay(d time.Duration) Option { return func(s *Store) { s.delay = d } }

func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, delay: time.Second}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a copy of the in-memory session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.JwtToken
}

// Subscribe registers fn to run after every Commit and Clear with the new
// session value. Registration order is preserved.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Restore loads the persisted session once at startup. Absent, unreadable or
// malformed entries leave the store signed out; a malformed payload is
// deleted so it is not retried on the next start. A persisted role outside
// the recognized set is coerced to "no role" before the record is accepted.
func (s *Store) Restore() {
	raw, ok, err := s.storage.Get(KeyUser)
	if err != nil {
		logger.Warnf("session restore: %v", err)
		return
	}
	if !ok {
		return
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		logger.Errorf("failed to parse stored session, discarding: %v", err)
		_ = s.storage.Delete(KeyUser)
		return
	}
	if sess.UserRole != nil && !sess.UserRole.Valid() {
		sess.UserRole = nil
	}
	s.mu.Lock()
	s.current = sess
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(sess)
	}
}

// Commit replaces the current session and synchronously persists both the
// full payload and the bare token. Storage failures are surfaced to the
// caller; the in-memory state is updated regardless so the running UI stays
// consistent with what the user just did.
func (s *Store) Commit(sess Session) error {
	s.mu.Lock()
	s.current = sess
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(sess)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, string(payload)); err != nil {
		return err
	}
	return s.storage.Set(KeyAuthToken, sess.JwtToken)
}

// Clear resets the store to the signed-out default, removes both persisted
// entries, raises an informational notice, and after a short delay navigates
// to the sign-in route. Clearing an already signed-out store is a no-op apart
// from the notice and navigation. Clear never fails.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = Session{}
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(Session{})
	}

	if err := s.storage.Delete(KeyUser); err != nil {
		logger.Warnf("session clear: %v", err)
	}
	if err := s.storage.Delete(KeyAuthToken); err != nil {
		logger.Warnf("session clear: %v", err)
	}

	if s.notifier != nil {
		s.notifier.Notify("info", "Logged Out", "You have been logged out.")
	}
	if s.nav != nil {
		nav := s.nav
		time.AfterFunc(s.delay, func() { nav.Navigate(SignInRoute) })
	}
}
