package session

import (
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Transition is an authentication lifecycle event observed by the cart
// machinery.
type Transition string

const (
	LoginSuccess Transition = "loginSuccess"
	Hydrated     Transition = "hydrated"
	LoggedOut    Transition = "loggedOut"
)

// Session tracks whether the current user is authenticated and announces
// lifecycle transitions to registered observers. Observers run on the
// goroutine that triggered the transition, after the state change has
// been applied.
type Session struct {
	id     string
	logger *log.Logger

	mu       sync.Mutex
	token    string
	loggedIn bool

	obsMu     sync.Mutex
	observers []func(Transition)
}

func New(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		id:     uuid.NewString(),
		logger: logger,
	}
}

// ID is a stable identifier for this session instance, used for log
// correlation.
func (s *Session) ID() string { return s.id }

// OnTransition registers an observer for lifecycle transitions.
func (s *Session) OnTransition(fn func(Transition)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

// Login records a successful authentication and announces LoginSuccess.
func (s *Session) Login(token string) {
	s.mu.Lock()
	s.token = token
	s.loggedIn = true
	s.mu.Unlock()

	s.logger.Printf("session %s: login", s.id)
	s.notify(LoginSuccess)
}

// Hydrate announces that a previously persisted authenticated session has
// been restored, token included. Call at startup when stored credentials
// are found.
func (s *Session) Hydrate(token string) {
	s.mu.Lock()
	s.token = token
	s.loggedIn = true
	s.mu.Unlock()

	s.logger.Printf("session %s: hydrated", s.id)
	s.notify(Hydrated)
}

// Logout drops the credentials and announces LoggedOut.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.loggedIn = false
	s.mu.Unlock()

	s.logger.Printf("session %s: logout", s.id)
	s.notify(LoggedOut)
}

// Authenticated reports whether a user is currently logged in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Token returns the current access token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) notify(t Transition) {
	s.obsMu.Lock()
	observers := append(([]func(Transition))(nil), s.observers...)
	s.obsMu.Unlock()
	for _, fn := range observers {
		fn(t)
	}
}
