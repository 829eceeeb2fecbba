// Package identity maps platform-side team and user objects into stable,
// comparable identifiers (team slugs and user logins).
//
// The destination's membership directory may differ from the source's, so the
// rest of the codebase works on plain string identifiers resolved once at read
// time and never re-resolves objects.
package identity

import "github.com/google/go-github/v66/github"

// TeamSlugs resolves a platform restriction list of teams into an ordered
// sequence of team slugs, preserving the platform's return order.
//
// A nil list (the platform reporting no restriction list at all) resolves to
// an empty sequence: for the purposes of writing, no restrictions and zero
// restrictions are the same state.
func TeamSlugs(teams []*github.Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if t == nil || t.GetSlug() == "" {
			continue
		}
		out = append(out, t.GetSlug())
	}
	return out
}

// UserLogins resolves a platform restriction list of users into an ordered
// sequence of logins, preserving the platform's return order. Nil input
// resolves to an empty sequence.
func UserLogins(users []*github.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u == nil || u.GetLogin() == "" {
			continue
		}
		out = append(out, u.GetLogin())
	}
	return out
}
