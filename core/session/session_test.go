package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elimuhq/elimu/core/user"
)

type memTokens struct {
	token   string
	readErr error
}

func (m *memTokens) Read() (string, error) { return m.token, m.readErr }
func (m *memTokens) Write(t string) error  { m.token = t; return nil }
func (m *memTokens) Forget() error         { m.token = ""; return nil }

type stubWhoami struct {
	usr user.User
	err error
}

func (w stubWhoami) FetchProfile(_ context.Context, _ string) (user.User, error) {
	return w.usr, w.err
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var mockUsr = user.User{ID: "dev-1", Name: "Dev Student", Username: "devstudent", Role: user.RoleStudent}

func Test_Snapshot_Status(t *testing.T) {
	usr := user.User{ID: "u1"}
	tests := []struct {
		name string
		snap Snapshot
		want Status
	}{
		{"empty", Snapshot{}, Unauthenticated},
		{"token only", Snapshot{Token: "t"}, Unauthenticated},
		{"user only", Snapshot{User: &usr}, Unauthenticated},
		{"token and user", Snapshot{Token: "t", User: &usr}, Authenticated},
		{"loading", Snapshot{Loading: true}, Loading},
		{"loading with settled session", Snapshot{Token: "t", User: &usr, Loading: true}, Authenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Status())
		})
	}
}

func Test_Store_FetchCurrentUser_noToken(t *testing.T) {
	s := NewStore(&memTokens{}, stubWhoami{}, nopLogger{})

	err := s.FetchCurrentUser(context.Background())
	assert.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, Unauthenticated, snap.Status())
	assert.Nil(t, snap.User)
}

func Test_Store_FetchCurrentUser_noToken_devSeedsMock(t *testing.T) {
	s := NewStore(&memTokens{}, stubWhoami{}, nopLogger{}, WithDevFallback(mockUsr))

	err := s.FetchCurrentUser(context.Background())
	assert.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, Authenticated, snap.Status())
	assert.Equal(t, DevToken, snap.Token)
	assert.Equal(t, mockUsr.ID, snap.User.ID)
}

func Test_Store_FetchCurrentUser_success(t *testing.T) {
	usr := user.User{ID: "u1", Username: "jdoe", Role: user.RoleTeacher}
	s := NewStore(&memTokens{token: "tok-1"}, stubWhoami{usr: usr}, nopLogger{})

	err := s.FetchCurrentUser(context.Background())
	assert.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, Authenticated, snap.Status())
	assert.Equal(t, "tok-1", snap.Token)
	assert.Equal(t, "jdoe", snap.User.Username)
	assert.False(t, snap.Loading)
}

func Test_Store_FetchCurrentUser_failureClearsAndForgets(t *testing.T) {
	tokens := &memTokens{token: "stale"}
	s := NewStore(tokens, stubWhoami{err: errors.New("401")}, nopLogger{})
	s.SetToken("stale")
	s.SetUser(&user.User{ID: "old"})

	err := s.FetchCurrentUser(context.Background())
	assert.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, Unauthenticated, snap.Status())
	assert.Nil(t, snap.User)
	assert.Empty(t, tokens.token, "persisted token must be forgotten")
}

func Test_Store_FetchCurrentUser_failureFallsBackToMockInDev(t *testing.T) {
	tokens := &memTokens{token: "stale"}
	s := NewStore(tokens, stubWhoami{err: errors.New("conn refused")}, nopLogger{}, WithDevFallback(mockUsr))

	err := s.FetchCurrentUser(context.Background())
	assert.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, Authenticated, snap.Status())
	assert.Equal(t, mockUsr.Username, snap.User.Username)
}

func Test_Store_Logout(t *testing.T) {
	tokens := &memTokens{token: "tok"}
	s := NewStore(tokens, stubWhoami{}, nopLogger{})
	s.SetToken("tok")
	s.SetUser(&user.User{ID: "u1"})

	assert.NoError(t, s.Logout())
	assert.Equal(t, Unauthenticated, s.Snapshot().Status())
	assert.Empty(t, tokens.token)
}
