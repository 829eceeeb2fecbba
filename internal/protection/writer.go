package protection

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"

	gh "repomirror/internal/github"
)

// Writer applies a desired protection state to a destination branch. The
// update is a single platform request and is not transactional: a platform
// failure mid-update may leave the destination between states, which the
// remote system owns and this code does not compensate for.
type Writer struct {
	client *gh.Client
}

func NewWriter(client *gh.Client) *Writer {
	return &Writer{client: client}
}

// Write makes ref's protection state match desired.
//
// The branch must exist; a missing branch yields a NotFoundError regardless
// of desired state. Removing protection from an already-unprotected branch is
// a successful no-op, so repeated runs converge.
func (w *Writer) Write(ctx context.Context, ref BranchRef, desired State) error {
	if _, _, err := w.client.Client.Repositories.GetBranch(ctx, ref.Owner, ref.Repo, ref.Branch, 0); err != nil {
		return gh.Classify(err, fmt.Sprintf("branch %s", ref))
	}

	ruleset, protected := desired.Ruleset()
	if !protected {
		return w.remove(ctx, ref)
	}
	return w.apply(ctx, ref, ruleset)
}

func (w *Writer) remove(ctx context.Context, ref BranchRef) error {
	_, err := w.client.Client.Repositories.RemoveBranchProtection(ctx, ref.Owner, ref.Repo, ref.Branch)
	if err != nil {
		if gh.IsBranchNotProtected(err) {
			return nil
		}
		return gh.Classify(err, fmt.Sprintf("branch protection %s", ref))
	}
	return nil
}

func (w *Writer) apply(ctx context.Context, ref BranchRef, r Ruleset) error {
	req := &github.ProtectionRequest{
		EnforceAdmins: r.EnforceAdmins,
		RequiredPullRequestReviews: &github.PullRequestReviewsEnforcementRequest{
			DismissalRestrictionsRequest: &github.DismissalRestrictionsRequest{
				Teams: explicitList(r.DismissalRestrictions.Teams),
				Users: explicitList(r.DismissalRestrictions.Users),
			},
			DismissStaleReviews:          r.DismissStaleReviews,
			RequireCodeOwnerReviews:      r.RequireCodeOwnerReviews,
			RequiredApprovingReviewCount: r.RequiredApprovingReviewCount,
		},
		Restrictions: &github.BranchRestrictionsRequest{
			Teams: emptyIfNil(r.PushRestrictions.Teams),
			Users: emptyIfNil(r.PushRestrictions.Users),
		},
	}

	// An unset status check field stays out of the request entirely, which
	// preserves the destination's existing status check configuration. An
	// explicit value always goes on the wire, even with zero contexts.
	if sc, ok := r.StatusChecks.Get(); ok {
		contexts := emptyIfNil(sc.Contexts)
		req.RequiredStatusChecks = &github.RequiredStatusChecks{
			Strict:   sc.Strict,
			Contexts: &contexts,
		}
	}

	_, _, err := w.client.Client.Repositories.UpdateBranchProtection(ctx, ref.Owner, ref.Repo, ref.Branch, req)
	if err != nil {
		return gh.Classify(err, fmt.Sprintf("branch protection %s", ref))
	}
	return nil
}

// explicitList returns a pointer to a non-nil copy of s. Restriction lists
// are always written explicitly: an empty list clears the destination's list,
// it never means "leave unchanged".
func explicitList(s []string) *[]string {
	out := emptyIfNil(s)
	return &out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
