package engine

import (
	"context"
	"fmt"
	"strings"

	"repomirror/internal/config"
	gh "repomirror/internal/github"
	"repomirror/internal/mirror"
	"repomirror/internal/protection"
	"repomirror/internal/tasks"
)

// Pair is one fully resolved sync pair: concrete branches on both sides and
// the tasks to run for it. Branch names are resolved before execution, so an
// empty branch in the input has already been replaced with the repository's
// default branch by the time a Pair exists.
type Pair struct {
	Source protection.BranchRef
	Dest   protection.BranchRef

	Tasks             []string
	CloneStatusChecks bool
	PruneLabels       bool
}

func (p Pair) SourceRepo() mirror.RepoRef {
	return mirror.RepoRef{Owner: p.Source.Owner, Repo: p.Source.Repo}
}

func (p Pair) DestRepo() mirror.RepoRef {
	return mirror.RepoRef{Owner: p.Dest.Owner, Repo: p.Dest.Repo}
}

type SyncPlan struct {
	Pairs []Pair
}

// BuildPlan resolves the configuration into a concrete plan: a single pair
// from the flags, or every pair of a plan file. Empty branch names are
// resolved to each repository's default branch, which requires the
// repositories to exist; a missing repository fails the build.
func BuildPlan(ctx context.Context, client *gh.Client, cfg *config.Config) (*SyncPlan, error) {
	if cfg.Pairing.Plan != "" {
		planFile, err := config.LoadPlan(cfg.Pairing.Plan)
		if err != nil {
			return nil, err
		}

		plan := &SyncPlan{}
		for _, pp := range planFile.Pairs {
			pair, err := resolvePair(ctx, client, pp.Source, pp.Dest, pp.SourceBranch, pp.DestBranch)
			if err != nil {
				return nil, err
			}
			pair.Tasks = pp.Tasks
			pair.CloneStatusChecks = pp.CloneStatusChecks()
			pair.PruneLabels = pp.Prune()
			plan.Pairs = append(plan.Pairs, pair)
		}
		return plan, nil
	}

	pair, err := resolvePair(ctx, client, cfg.Pairing.Source, cfg.Pairing.Dest, cfg.Pairing.SourceBranch, cfg.Pairing.DestBranch)
	if err != nil {
		return nil, err
	}
	pair.Tasks = cfg.Sync.Tasks
	if len(pair.Tasks) == 0 {
		pair.Tasks = []string{tasks.TaskProtection}
	}
	pair.CloneStatusChecks = !cfg.Sync.NoStatusChecks
	pair.PruneLabels = cfg.Sync.PruneLabels
	return &SyncPlan{Pairs: []Pair{pair}}, nil
}

func resolvePair(ctx context.Context, client *gh.Client, source, dest, sourceBranch, destBranch string) (Pair, error) {
	sourceRef, err := branchRef(ctx, client, source, sourceBranch)
	if err != nil {
		return Pair{}, err
	}
	destRef, err := branchRef(ctx, client, dest, destBranch)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Source: sourceRef, Dest: destRef}, nil
}

func branchRef(ctx context.Context, client *gh.Client, selector, branch string) (protection.BranchRef, error) {
	owner, repo, ok := strings.Cut(selector, "/")
	if !ok {
		return protection.BranchRef{}, fmt.Errorf("invalid repository selector %q", selector)
	}
	if branch == "" {
		resolved, err := mirror.DefaultBranch(ctx, client, mirror.RepoRef{Owner: owner, Repo: repo})
		if err != nil {
			return protection.BranchRef{}, err
		}
		if resolved == "" {
			return protection.BranchRef{}, fmt.Errorf("repository %s/%s reports no default branch", owner, repo)
		}
		branch = resolved
	}
	return protection.BranchRef{Owner: owner, Repo: repo, Branch: branch}, nil
}
