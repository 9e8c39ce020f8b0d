// Package session owns the client-side auth session: the token, the current
// user profile and the loading flag, plus the route access guard built on
// top of them.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/user"
)

// Status is the derived state of a session.
type Status int

const (
	Unauthenticated Status = iota
	Loading
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// DevToken is the placeholder token paired with the mock identity when the
// dev fallback strategy seeds a session.
const DevToken = "dev-session"

type (
	// TokenStore persists the auth token across process restarts.
	TokenStore interface {
		Read() (string, error)
		Write(token string) error
		Forget() error
	}

	// Whoami is the "who am I" collaborator: it resolves a token into the
	// profile of its owner.
	Whoami interface {
		FetchProfile(ctx context.Context, token string) (user.User, error)
	}

	// Snapshot is an immutable view of the session at one point in time.
	Snapshot struct {
		Token   string
		User    *user.User
		Loading bool
	}

	// Store holds the auth session for one app instance. A single logical
	// session exists per instance; overlapping FetchCurrentUser calls are
	// tolerated, last write wins.
	Store struct {
		mu      sync.RWMutex
		token   string
		user    *user.User
		loading bool

		tokens TokenStore
		whoami Whoami
		mock   *user.User // dev fallback identity; nil in production
		logger core.Logger
	}

	Option func(*Store)
)

// WithDevFallback makes the store seed the given mock identity whenever no
// real session can be established. Wire it exactly once at startup, from
// core.Config.DevMode; production stores never carry it.
func WithDevFallback(mock user.User) Option {
	return func(s *Store) { s.mock = &mock }
}

func NewStore(tokens TokenStore, whoami Whoami, logger core.Logger, opts ...Option) *Store {
	s := &Store{
		tokens: tokens,
		whoami: whoami,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status on a Snapshot: authenticated iff both token and user are set;
// loading takes precedence over unauthenticated while a fetch is in flight.
func (snap Snapshot) Status() Status {
	if snap.Token != "" && snap.User != nil {
		return Authenticated
	}
	if snap.Loading {
		return Loading
	}
	return Unauthenticated
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: s.user, Loading: s.loading}
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Store) SetUser(usr *user.User) {
	s.mu.Lock()
	s.user = usr
	s.mu.Unlock()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Clear resets all session fields. It never touches the persisted token;
// see Logout for that.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.loading = false
	s.mu.Unlock()
}

// Logout clears the session and forgets the persisted token.
func (s *Store) Logout() error {
	s.Clear()
	return errors.Wrap(s.tokens.Forget(), "forgetting token")
}

// FetchCurrentUser (re)establishes the session from the persisted token:
//   - no token: the session stays empty, unless the dev fallback seeds the
//     mock identity;
//   - token present: the Whoami collaborator resolves the profile; on failure
//     the session is cleared and the token forgotten (production) or the mock
//     identity is seeded (dev fallback only).
func (s *Store) FetchCurrentUser(ctx context.Context) error {
	s.SetLoading(true)
	defer s.SetLoading(false)

	token, err := s.tokens.Read()
	if err != nil {
		s.logger.Warn("session: reading persisted token", err)
		token = ""
	}
	if token == "" {
		s.seedMockIfDev()
		return nil
	}

	usr, err := s.whoami.FetchProfile(ctx, token)
	if err != nil {
		if s.mock != nil {
			s.seedMockIfDev()
			return nil
		}
		s.Clear()
		if fErr := s.tokens.Forget(); fErr != nil {
			s.logger.Warn("session: forgetting token", fErr)
		}
		return errors.Wrap(err, "fetching current user")
	}

	s.mu.Lock()
	s.token = token
	s.user = &usr
	s.mu.Unlock()
	return nil
}

func (s *Store) seedMockIfDev() {
	if s.mock == nil {
		return
	}
	mock := *s.mock
	s.mu.Lock()
	s.token = DevToken
	s.user = &mock
	s.mu.Unlock()
}
