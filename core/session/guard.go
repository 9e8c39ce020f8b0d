package session

// LoginPath is where unauthenticated navigation attempts are sent.
const LoginPath = "/login"

// DefaultFallback is where authorized-but-wrong-role attempts are sent when
// the route does not configure its own fallback.
const DefaultFallback = "/"

type (
	// Route describes the access requirements of a navigation target.
	// An empty Roles set means any authenticated user may enter.
	Route struct {
		Path     string
		Roles    []string
		Fallback string
	}

	DecisionKind int

	// Decision is the terminal outcome of guarding a navigation attempt.
	// Wait is the only non-terminal kind: the session has not settled yet
	// and the caller must re-evaluate once it has.
	Decision struct {
		Kind   DecisionKind
		Target string // redirect target; empty for Render/Wait
		Next   string // original path to return to after login
	}
)

const (
	Wait DecisionKind = iota
	Render
	Redirect
)

// Decide runs the two access gates, in fixed order, against a session
// snapshot:
//  1. authentication: unauthenticated sessions are redirected to the login
//     path, remembering the originally requested path;
//  2. authorization: a route with a role set only renders for members.
//
// A loading session yields Wait, never a premature redirect.
func Decide(snap Snapshot, route Route) Decision {
	switch snap.Status() {
	case Loading:
		return Decision{Kind: Wait}
	case Unauthenticated:
		return Decision{Kind: Redirect, Target: LoginPath, Next: route.Path}
	}

	if len(route.Roles) == 0 {
		return Decision{Kind: Render}
	}
	for _, role := range route.Roles {
		if snap.User.Role == role {
			return Decision{Kind: Render}
		}
	}

	fallback := route.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	return Decision{Kind: Redirect, Target: fallback}
}
