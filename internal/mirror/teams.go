package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v66/github"

	gh "repomirror/internal/github"
)

// TeamSyncer attaches every team associated with the source repository to
// the destination repository, by slug, with the same permission. Teams are
// resolved within the destination owner's organization; both repositories
// are expected to live under organizations that share the teams.
type TeamSyncer struct {
	client *gh.Client
}

func NewTeamSyncer(client *gh.Client) *TeamSyncer {
	return &TeamSyncer{client: client}
}

// Sync returns how many teams were attached. A team the destination org
// cannot resolve does not stop the remaining teams; each failure is
// reported and the collected failures come back as one error after every
// team was attempted.
func (s *TeamSyncer) Sync(ctx context.Context, source, dest RepoRef) (int, error) {
	teams, err := s.listTeams(ctx, source)
	if err != nil {
		return 0, err
	}

	var attached int
	var failures []error
	for _, team := range teams {
		slug := team.GetSlug()
		if slug == "" {
			continue
		}
		opts := &github.TeamAddTeamRepoOptions{Permission: team.GetPermission()}
		_, err := s.client.Client.Teams.AddTeamRepoBySlug(ctx, dest.Owner, slug, dest.Owner, dest.Repo, opts)
		if err != nil {
			failures = append(failures, gh.Classify(err, fmt.Sprintf("team %q on %s", slug, dest)))
			continue
		}
		attached++
	}

	return attached, errors.Join(failures...)
}

func (s *TeamSyncer) listTeams(ctx context.Context, ref RepoRef) ([]*github.Team, error) {
	var all []*github.Team
	opts := &github.ListOptions{PerPage: 100}
	for {
		teams, resp, err := s.client.Client.Repositories.ListTeams(ctx, ref.Owner, ref.Repo, opts)
		if err != nil {
			return nil, gh.Classify(err, fmt.Sprintf("teams of %s", ref))
		}
		all = append(all, teams...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}
