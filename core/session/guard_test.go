package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elimuhq/elimu/core/user"
)

func authedSnap(role string) Snapshot {
	return Snapshot{Token: "tok", User: &user.User{ID: "u1", Role: role}}
}

func Test_Decide(t *testing.T) {
	tests := []struct {
		name  string
		snap  Snapshot
		route Route
		want  Decision
	}{
		{
			"unauthenticated redirects to login with next",
			Snapshot{},
			Route{Path: "/courses/42"},
			Decision{Kind: Redirect, Target: LoginPath, Next: "/courses/42"},
		},
		{
			"empty token with user still redirects to login",
			Snapshot{User: &user.User{ID: "u1", Role: user.RoleStudent}},
			Route{Path: "/tasks"},
			Decision{Kind: Redirect, Target: LoginPath, Next: "/tasks"},
		},
		{
			"loading waits, never redirects",
			Snapshot{Loading: true},
			Route{Path: "/admin", Roles: []string{user.RoleAdmin}},
			Decision{Kind: Wait},
		},
		{
			"authenticated renders open route",
			authedSnap(user.RoleStudent),
			Route{Path: "/courses"},
			Decision{Kind: Render},
		},
		{
			"role member renders",
			authedSnap(user.RoleTeacher),
			Route{Path: "/teach", Roles: []string{user.RoleTeacher, user.RoleAdmin}},
			Decision{Kind: Render},
		},
		{
			"student on admin route redirects to default fallback",
			authedSnap(user.RoleStudent),
			Route{Path: "/admin", Roles: []string{user.RoleAdmin}},
			Decision{Kind: Redirect, Target: DefaultFallback},
		},
		{
			"role mismatch honors configured fallback",
			authedSnap(user.RoleStudent),
			Route{Path: "/teach", Roles: []string{user.RoleTeacher}, Fallback: "/courses"},
			Decision{Kind: Redirect, Target: "/courses"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.snap, tt.route))
		})
	}
}

func Test_Decide_authGateRunsFirst(t *testing.T) {
	// an unauthenticated attempt on a role-gated route goes to login, not to
	// the role fallback
	got := Decide(Snapshot{}, Route{Path: "/admin", Roles: []string{user.RoleAdmin}, Fallback: "/x"})
	assert.Equal(t, Decision{Kind: Redirect, Target: LoginPath, Next: "/admin"}, got)
}
