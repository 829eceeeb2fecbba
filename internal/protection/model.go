// Package protection implements branch protection ruleset synchronization:
// reading a source branch's protection configuration into a canonical model,
// and applying that model (or its absence) to a destination branch.
package protection

// StatusChecks holds the required status check settings of a ruleset.
type StatusChecks struct {
	// Strict requires branches to be up to date before merging.
	Strict bool
	// Contexts lists the status checks that must pass. May be empty, which is
	// an explicit "no contexts", not an absent configuration.
	Contexts []string
}

// StatusChecksField is the tri-state carrier for status check settings.
//
// The zero value is "unset": the field is omitted from the update and the
// destination's existing status check configuration is left untouched.
// A value produced by StatusChecksValue is explicit, even when Contexts is
// empty: it replaces whatever the destination had. Omitting a field and
// setting it to empty are observably different operations against the
// destination, so the distinction is a tagged state rather than a nil check.
type StatusChecksField struct {
	set   bool
	value StatusChecks
}

// StatusChecksValue returns a field that explicitly carries v.
func StatusChecksValue(v StatusChecks) StatusChecksField {
	return StatusChecksField{set: true, value: v}
}

// Get returns the carried value and whether the field is set.
func (f StatusChecksField) Get() (StatusChecks, bool) {
	return f.value, f.set
}

// IsSet reports whether the field carries an explicit value.
func (f StatusChecksField) IsSet() bool { return f.set }

// Restrictions is an identity restriction list partitioned into teams and
// users, as plain slugs/logins in the platform's return order. An empty
// partition means zero restrictions; there is no "absent" state here.
type Restrictions struct {
	Teams []string
	Users []string
}

// Ruleset is the canonical model of a branch's protection configuration.
type Ruleset struct {
	EnforceAdmins                bool
	RequireCodeOwnerReviews      bool
	DismissStaleReviews          bool
	RequiredApprovingReviewCount int

	// DismissalRestrictions lists who may dismiss pull request review
	// approvals.
	DismissalRestrictions Restrictions

	// PushRestrictions lists who may push directly to the branch.
	PushRestrictions Restrictions

	// StatusChecks is unset only when the caller asked for status check
	// settings not to be cloned; a ruleset read from the platform otherwise
	// always carries an explicit value, even with zero contexts.
	StatusChecks StatusChecksField
}

// State is the protection state of a branch: either Protected with a concrete
// ruleset, or Unprotected. "No policy" is a distinct state, never a ruleset
// with all-default fields, so that cloning reproduces absence as faithfully
// as any concrete policy.
type State struct {
	protected bool
	ruleset   Ruleset
}

// Protected returns the state of a branch carrying ruleset r.
func Protected(r Ruleset) State {
	return State{protected: true, ruleset: r}
}

// Unprotected returns the state of a branch with no protection configured.
func Unprotected() State {
	return State{}
}

// Ruleset returns the carried ruleset and whether the branch is protected.
func (s State) Ruleset() (Ruleset, bool) {
	return s.ruleset, s.protected
}

// IsProtected reports whether the state carries a ruleset.
func (s State) IsProtected() bool { return s.protected }
