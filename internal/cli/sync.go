package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"repomirror/internal/config"
	"repomirror/internal/engine"
	"repomirror/internal/flags"
	gh "repomirror/internal/github"
)

var cfg = config.New()

var authToken string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror governance settings from a source repository to a destination",
	Long: `Mirror governance settings from a source GitHub repository to a destination.

The protection task reads the source branch's protection ruleset and applies it
to the destination branch; an unprotected source removes the destination's
protection. Optional tasks mirror labels, the default branch, and team
associations.

Authentication:
  RepoMirror uses a GitHub access token. It prefers --token, then GITHUB_TOKEN,
  then GitHub CLI authentication if the gh CLI is installed and logged in.
  The token needs administration access to the destination repository.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, pair.started, task.result, pair.finished, run.finished).
	Task results are represented as an Event with type "task.result" and a nested
	"result" object.

Exit codes:
	0 = clean run, every task synced
	2 = partial failure (some tasks errored)
	3 = fatal error (run did not start)

Examples:
  # Token via environment variable
  export GITHUB_TOKEN="<your_token>"
  repomirror sync --source acme/template --dest acme/new-service

  # Specific branches, keeping the destination's status checks
  repomirror sync --source acme/template --dest acme/new-service \
    --source-branch main --dest-branch release --no-status-checks

  # Multiple pairs from a plan file
  repomirror sync --plan sync.yaml

  # Stream machine-readable events to stdout
  repomirror sync --source acme/a --dest acme/b --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx := context.Background()
		token, _, err := gh.ResolveAuthToken(ctx, authToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			os.Exit(3)
		}
		if strings.TrimSpace(token) == "" {
			fmt.Fprintln(os.Stderr, "Error: GitHub auth token is required (set GITHUB_TOKEN or run 'gh auth login')")
			os.Exit(3)
		}

		client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
			os.Exit(3)
		}

		runCtx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()

		eng := engine.NewEngine(client)
		os.Exit(eng.Run(runCtx, cfg))
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	// Pairing
	syncCmd.Flags().StringVar(&cfg.Pairing.Source, flags.FlagSource, "", "Source repository as OWNER/REPO or GitHub URL")
	syncCmd.Flags().StringVar(&cfg.Pairing.Dest, flags.FlagDest, "", "Destination repository as OWNER/REPO or GitHub URL")
	syncCmd.Flags().StringVar(&cfg.Pairing.SourceBranch, flags.FlagSourceBranch, "", "Source branch to read protection from (default: source repo's default branch)")
	syncCmd.Flags().StringVar(&cfg.Pairing.DestBranch, flags.FlagDestBranch, "", "Destination branch to apply protection to (default: dest repo's default branch)")
	syncCmd.Flags().StringVar(&cfg.Pairing.Plan, flags.FlagPlan, "", "YAML plan file describing multiple sync pairs (mutually exclusive with --source/--dest)")

	// Sync behavior
	syncCmd.Flags().StringSliceVar(&cfg.Sync.Tasks, flags.FlagTasks, nil, "Tasks to run: protection|labels|default-branch|teams (repeatable; comma-separated accepted; default: protection)")
	syncCmd.Flags().BoolVar(&cfg.Sync.NoStatusChecks, flags.FlagNoStatusChecks, false, "Leave the destination's required status check settings untouched")
	syncCmd.Flags().BoolVar(&cfg.Sync.PruneLabels, flags.FlagPruneLabels, false, "Delete destination labels absent from the source (labels task only)")
	syncCmd.Flags().BoolVar(&cfg.Sync.DryRun, flags.FlagDryRun, false, "Resolve pairs and print the plan without syncing (still requires auth token)")

	// Output
	syncCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	syncCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console output by status (SYNCED, CLEARED, SKIPPED, ERROR). Comma-separated.")
	syncCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	syncCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	syncCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	syncCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out)")

	// Runtime
	syncCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 3, "Concurrent sync pairs (default: 3)")
	syncCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 10m)")
	syncCmd.Flags().StringVar(&authToken, flags.FlagToken, "", "GitHub access token (default: GITHUB_TOKEN, then gh CLI auth)")
}
