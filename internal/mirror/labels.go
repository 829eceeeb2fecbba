package mirror

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"

	gh "repomirror/internal/github"
)

// LabelSyncer makes the destination repository carry every label of the
// source repository, matching name, color and description. With pruning
// enabled, labels that exist only on the destination are deleted so the end
// state is an exact copy of the source's label set.
type LabelSyncer struct {
	client *gh.Client
}

func NewLabelSyncer(client *gh.Client) *LabelSyncer {
	return &LabelSyncer{client: client}
}

// LabelCounts summarizes what one label sync changed.
type LabelCounts struct {
	Created int
	Updated int
	Deleted int
}

// Sync upserts the source's labels into dest. Labels are matched by name,
// case-insensitively, since the platform rejects labels differing only in
// case. When prune is true, destination-only labels are removed.
func (s *LabelSyncer) Sync(ctx context.Context, source, dest RepoRef, prune bool) (LabelCounts, error) {
	var counts LabelCounts

	sourceLabels, err := s.listLabels(ctx, source)
	if err != nil {
		return counts, err
	}
	destLabels, err := s.listLabels(ctx, dest)
	if err != nil {
		return counts, err
	}

	existing := make(map[string]*github.Label, len(destLabels))
	for _, l := range destLabels {
		existing[strings.ToLower(l.GetName())] = l
	}

	wanted := make(map[string]bool, len(sourceLabels))
	for _, src := range sourceLabels {
		name := src.GetName()
		if name == "" {
			continue
		}
		wanted[strings.ToLower(name)] = true

		desired := &github.Label{
			Name:        github.String(name),
			Color:       src.Color,
			Description: src.Description,
		}

		cur, ok := existing[strings.ToLower(name)]
		if !ok {
			if _, _, err := s.client.Client.Issues.CreateLabel(ctx, dest.Owner, dest.Repo, desired); err != nil {
				return counts, gh.Classify(err, fmt.Sprintf("label %q in %s", name, dest))
			}
			counts.Created++
			continue
		}
		if labelMatches(cur, src) {
			continue
		}
		if _, _, err := s.client.Client.Issues.EditLabel(ctx, dest.Owner, dest.Repo, cur.GetName(), desired); err != nil {
			return counts, gh.Classify(err, fmt.Sprintf("label %q in %s", name, dest))
		}
		counts.Updated++
	}

	if prune {
		for _, l := range destLabels {
			if wanted[strings.ToLower(l.GetName())] {
				continue
			}
			if _, err := s.client.Client.Issues.DeleteLabel(ctx, dest.Owner, dest.Repo, l.GetName()); err != nil {
				return counts, gh.Classify(err, fmt.Sprintf("label %q in %s", l.GetName(), dest))
			}
			counts.Deleted++
		}
	}

	return counts, nil
}

func (s *LabelSyncer) listLabels(ctx context.Context, ref RepoRef) ([]*github.Label, error) {
	var all []*github.Label
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := s.client.Client.Issues.ListLabels(ctx, ref.Owner, ref.Repo, opts)
		if err != nil {
			return nil, gh.Classify(err, fmt.Sprintf("labels of %s", ref))
		}
		all = append(all, labels...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

func labelMatches(cur, want *github.Label) bool {
	return cur.GetName() == want.GetName() &&
		strings.EqualFold(cur.GetColor(), want.GetColor()) &&
		cur.GetDescription() == want.GetDescription()
}
