// Package mirror copies repository-level governance settings beside branch
// protection: labels, the default branch, and team associations.
package mirror

import (
	"context"
	"fmt"

	gh "repomirror/internal/github"
)

// RepoRef names one repository.
type RepoRef struct {
	Owner string
	Repo  string
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Repo)
}

// DefaultBranch returns the default branch name of ref.
func DefaultBranch(ctx context.Context, client *gh.Client, ref RepoRef) (string, error) {
	repo, _, err := client.Client.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", gh.Classify(err, fmt.Sprintf("repository %s", ref))
	}
	return repo.GetDefaultBranch(), nil
}
