package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"repomirror/internal/tasks"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect sync
	// behavior, keep the CLI flags in internal/cli/sync.go in sync.
	Pairing Pairing
	Sync    Sync
	Output  Output
	Runtime Runtime
}

type Pairing struct {
	// Source is the repository to copy settings from, as OWNER/REPO or a
	// GitHub URL (see --source).
	Source string

	// Dest is the repository to copy settings to, as OWNER/REPO or a
	// GitHub URL (see --dest).
	Dest string

	// SourceBranch is the source branch to read protection from (see
	// --source-branch). Empty means the source repository's default branch.
	SourceBranch string

	// DestBranch is the destination branch to apply protection to (see
	// --dest-branch). Empty means the destination repository's default branch.
	DestBranch string

	// Plan is the path to a YAML plan file describing multiple sync pairs
	// (see --plan). Mutually exclusive with --source/--dest.
	Plan string
}

type Sync struct {
	// Tasks selects which settings to mirror (see --tasks).
	// Allowed values: protection, labels, default-branch, teams.
	// Values may be provided as repeated flags and/or comma-separated lists.
	Tasks []string

	// NoStatusChecks leaves the destination's required status check settings
	// untouched when mirroring protection (see --no-status-checks).
	NoStatusChecks bool

	// PruneLabels deletes destination labels absent from the source during
	// the labels task (see --prune-labels).
	PruneLabels bool

	// DryRun resolves the pair set and prints the sync plan without mutating
	// anything (see --dry-run).
	DryRun bool
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by task status (see --console-filter-status).
	// Allowed values: SYNCED, CLEARED, SKIPPED, ERROR.
	ConsoleFilterStatus []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --emit/--out for machine-readable output.
	NoConsole bool
}

type Runtime struct {
	// Concurrency controls how many sync pairs run in parallel (see --concurrency).
	// Must be >= 1. Tasks within a pair always run sequentially.
	Concurrency int

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables per-request API diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Sync: Sync{
			Tasks: []string{tasks.TaskProtection},
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 3,
			Timeout:     10 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Sync.Tasks = splitCommaList(c.Sync.Tasks)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)
	c.Output.Emit = splitCommaList(c.Output.Emit)

	// Pairing validation
	if c.Pairing.Plan != "" {
		if c.Pairing.Source != "" || c.Pairing.Dest != "" {
			return errors.New("--plan and --source/--dest are mutually exclusive")
		}
	} else {
		if c.Pairing.Source == "" || c.Pairing.Dest == "" {
			return errors.New("either --plan or both --source and --dest must be provided")
		}
		source, err := NormalizeRepoSelector(c.Pairing.Source)
		if err != nil {
			return fmt.Errorf("invalid --source value: %w", err)
		}
		c.Pairing.Source = source
		dest, err := NormalizeRepoSelector(c.Pairing.Dest)
		if err != nil {
			return fmt.Errorf("invalid --dest value: %w", err)
		}
		c.Pairing.Dest = dest
		if c.Pairing.Source == c.Pairing.Dest && c.Pairing.SourceBranch == c.Pairing.DestBranch {
			return errors.New("--source and --dest name the same branch")
		}
	}

	// Sync validation
	if len(c.Sync.Tasks) == 0 {
		c.Sync.Tasks = []string{tasks.TaskProtection}
	}
	for i, task := range c.Sync.Tasks {
		v := normalizeEnumValue(task)
		if !tasks.Known(v) {
			return fmt.Errorf("unsupported --tasks value: %s (must be one of: %s)", task, strings.Join(tasks.All(), ", "))
		}
		c.Sync.Tasks[i] = v
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, status := range c.Output.ConsoleFilterStatus {
		v := strings.ToUpper(strings.TrimSpace(status))
		switch tasks.Status(v) {
		case tasks.StatusSynced, tasks.StatusCleared, tasks.StatusSkipped, tasks.StatusError:
		default:
			return fmt.Errorf("unsupported --console-filter-status: %s (must be one of: SYNCED, CLEARED, SKIPPED, ERROR)", status)
		}
		c.Output.ConsoleFilterStatus[i] = v
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else {
			if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
				return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
			}
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeRepoSelector resolves a repository selector to OWNER/REPO form.
//
// Accepted inputs:
//
//	OWNER/REPO
//	https://github.com/OWNER/REPO
//	github.com/OWNER/REPO (with or without a trailing .git)
func NormalizeRepoSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) < 2 {
			return "", fmt.Errorf("%q", raw)
		}
		return parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"), nil
	}

	owner, repo, ok := strings.Cut(raw, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return owner + "/" + repo, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
