package mirror

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"

	gh "repomirror/internal/github"
)

// DefaultBranchSyncer points the destination repository's default branch at
// the same branch name the source repository uses.
type DefaultBranchSyncer struct {
	client *gh.Client
}

func NewDefaultBranchSyncer(client *gh.Client) *DefaultBranchSyncer {
	return &DefaultBranchSyncer{client: client}
}

// Sync returns the branch name the destination's default was set to. The
// branch must already exist on the destination; the platform rejects the
// edit otherwise. A destination already on the right branch is left alone.
func (s *DefaultBranchSyncer) Sync(ctx context.Context, source, dest RepoRef) (string, error) {
	want, err := DefaultBranch(ctx, s.client, source)
	if err != nil {
		return "", err
	}
	if want == "" {
		return "", fmt.Errorf("repository %s reports no default branch", source)
	}

	have, err := DefaultBranch(ctx, s.client, dest)
	if err != nil {
		return "", err
	}
	if have == want {
		return want, nil
	}

	_, _, err = s.client.Client.Repositories.Edit(ctx, dest.Owner, dest.Repo, &github.Repository{
		DefaultBranch: github.String(want),
	})
	if err != nil {
		return "", gh.Classify(err, fmt.Sprintf("default branch of %s", dest))
	}
	return want, nil
}
