package flags

// Package flags defines canonical CLI flag names shared across the CLI and engine.
// Keeping these as constants helps avoid drift between Cobra flag wiring and other
// code paths that need to reference flags (e.g. validation error messages).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Pairing.Source, flags.FlagSource, "", "...")
//	arg := "--" + flags.FlagSource
const (
	// Pairing
	FlagSource       = "source"
	FlagDest         = "dest"
	FlagSourceBranch = "source-branch"
	FlagDestBranch   = "dest-branch"
	FlagPlan         = "plan"

	// Sync behavior
	FlagTasks          = "tasks"
	FlagNoStatusChecks = "no-status-checks"
	FlagPruneLabels    = "prune-labels"
	FlagDryRun         = "dry-run"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagToken       = "token"
)
