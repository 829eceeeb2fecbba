package protection

import (
	"context"
	"fmt"

	gh "repomirror/internal/github"
)

// Outcome describes what a successful synchronization did to the destination.
type Outcome string

const (
	// OutcomeMirrored means the source's ruleset was applied to the destination.
	OutcomeMirrored Outcome = "mirrored"
	// OutcomeCleared means the source was unprotected, so the destination's
	// protection was removed.
	OutcomeCleared Outcome = "cleared"
)

// Synchronizer mirrors the protection state of one source branch onto one
// destination branch: read the source fresh, then write the destination.
// Absence of protection is reproduced as faithfully as any concrete ruleset,
// so repeated runs converge to the same destination state regardless of where
// the destination started.
type Synchronizer struct {
	reader *Reader
	writer *Writer
}

// NewSynchronizer builds a Synchronizer over client. When cloneStatusChecks
// is false, rulesets are mirrored with status check settings omitted, leaving
// the destination's existing status check configuration untouched.
func NewSynchronizer(client *gh.Client, cloneStatusChecks bool) *Synchronizer {
	return &Synchronizer{
		reader: NewReader(client, cloneStatusChecks),
		writer: NewWriter(client),
	}
}

// Sync performs one synchronization run for the (source, dest) pair. Any
// reader or writer failure aborts the run and propagates unchanged; no
// retries are attempted within a run.
func (s *Synchronizer) Sync(ctx context.Context, source, dest BranchRef) (Outcome, error) {
	state, err := s.reader.Read(ctx, source)
	if err != nil {
		return "", fmt.Errorf("read source %s: %w", source, err)
	}

	if err := s.writer.Write(ctx, dest, state); err != nil {
		return "", fmt.Errorf("write dest %s: %w", dest, err)
	}

	if state.IsProtected() {
		return OutcomeMirrored, nil
	}
	return OutcomeCleared, nil
}
