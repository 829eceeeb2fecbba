package protection

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"

	gh "repomirror/internal/github"
	"repomirror/internal/identity"
)

// BranchRef names one branch of one repository.
type BranchRef struct {
	Owner  string
	Repo   string
	Branch string
}

func (r BranchRef) String() string {
	return fmt.Sprintf("%s/%s:%s", r.Owner, r.Repo, r.Branch)
}

// Reader fetches the protection state of a branch and converts it into the
// canonical model. It is read-only against the platform.
type Reader struct {
	client *gh.Client

	// includeStatusChecks controls whether status check settings are read.
	// When false, rulesets are produced with an unset StatusChecks field so
	// the writer leaves the destination's settings untouched.
	includeStatusChecks bool
}

func NewReader(client *gh.Client, includeStatusChecks bool) *Reader {
	return &Reader{client: client, includeStatusChecks: includeStatusChecks}
}

// Read returns the protection state of ref, freshly observed from the
// platform. A branch with no protection configured yields Unprotected with a
// nil error; a missing repository or branch yields a NotFoundError.
func (r *Reader) Read(ctx context.Context, ref BranchRef) (State, error) {
	if _, _, err := r.client.Client.Repositories.GetBranch(ctx, ref.Owner, ref.Repo, ref.Branch, 0); err != nil {
		return Unprotected(), gh.Classify(err, fmt.Sprintf("branch %s", ref))
	}

	prot, _, err := r.client.Client.Repositories.GetBranchProtection(ctx, ref.Owner, ref.Repo, ref.Branch)
	if err != nil {
		if gh.IsBranchNotProtected(err) {
			return Unprotected(), nil
		}
		return Unprotected(), gh.Classify(err, fmt.Sprintf("branch protection %s", ref))
	}

	return Protected(r.convert(prot)), nil
}

func (r *Reader) convert(prot *github.Protection) Ruleset {
	rs := Ruleset{}

	if prot.EnforceAdmins != nil {
		rs.EnforceAdmins = prot.EnforceAdmins.Enabled
	}

	if reviews := prot.RequiredPullRequestReviews; reviews != nil {
		rs.DismissStaleReviews = reviews.DismissStaleReviews
		rs.RequireCodeOwnerReviews = reviews.RequireCodeOwnerReviews
		rs.RequiredApprovingReviewCount = reviews.RequiredApprovingReviewCount
		if dr := reviews.DismissalRestrictions; dr != nil {
			rs.DismissalRestrictions = Restrictions{
				Teams: identity.TeamSlugs(dr.Teams),
				Users: identity.UserLogins(dr.Users),
			}
		} else {
			rs.DismissalRestrictions = emptyRestrictions()
		}
	} else {
		rs.DismissalRestrictions = emptyRestrictions()
	}

	if prot.Restrictions != nil {
		rs.PushRestrictions = Restrictions{
			Teams: identity.TeamSlugs(prot.Restrictions.Teams),
			Users: identity.UserLogins(prot.Restrictions.Users),
		}
	} else {
		rs.PushRestrictions = emptyRestrictions()
	}

	if r.includeStatusChecks {
		sc := StatusChecks{Contexts: []string{}}
		if rsc := prot.RequiredStatusChecks; rsc != nil {
			sc.Strict = rsc.Strict
			if rsc.Contexts != nil {
				sc.Contexts = append([]string{}, (*rsc.Contexts)...)
			}
		}
		// Once read, the source's status check configuration is fully known,
		// so the field always carries an explicit value here.
		rs.StatusChecks = StatusChecksValue(sc)
	}

	return rs
}

func emptyRestrictions() Restrictions {
	return Restrictions{Teams: []string{}, Users: []string{}}
}
