package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "repomirror",
	Short: "Mirror GitHub repository governance settings from one repository to another",
	Long: `RepoMirror copies repository governance settings (branch protection rulesets,
labels, the default branch, team associations) from a source GitHub repository
to a destination repository.

RepoMirror never creates repositories: both sides of a pair must already exist.

Examples:
	# Show available commands and global flags
	repomirror --help

	# Mirror branch protection between default branches
	repomirror sync --source acme/template --dest acme/new-service

	# Mirror protection plus labels and teams
	repomirror sync --source acme/template --dest acme/new-service --tasks protection,labels,teams

	# Print build info
	repomirror version

Output:
	By default, commands write human-readable output to stdout.
	The sync command supports structured output via emitter flags (see sync --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
