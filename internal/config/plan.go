package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"repomirror/internal/tasks"
)

// Plan describes a multi-pair sync run loaded from a YAML file. Defaults
// apply to every pair; a pair's own fields win over the defaults.
type Plan struct {
	Defaults PlanDefaults `yaml:"defaults"`
	Pairs    []PlanPair   `yaml:"pairs"`
}

type PlanDefaults struct {
	SourceBranch string   `yaml:"source_branch"`
	DestBranch   string   `yaml:"dest_branch"`
	StatusChecks *bool    `yaml:"status_checks"`
	Tasks        []string `yaml:"tasks"`
	PruneLabels  bool     `yaml:"prune_labels"`
}

type PlanPair struct {
	Source       string   `yaml:"source"`
	Dest         string   `yaml:"dest"`
	SourceBranch string   `yaml:"source_branch"`
	DestBranch   string   `yaml:"dest_branch"`
	StatusChecks *bool    `yaml:"status_checks"`
	Tasks        []string `yaml:"tasks"`
	PruneLabels  *bool    `yaml:"prune_labels"`
}

// LoadPlan reads and validates a plan file. The returned plan's pairs carry
// fully resolved values: defaults are folded in and repository selectors are
// normalized to OWNER/REPO.
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("parse plan file %s: %w", path, err)
	}

	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, err)
	}
	return &plan, nil
}

func (p *Plan) validate() error {
	if len(p.Pairs) == 0 {
		return fmt.Errorf("no pairs defined")
	}

	p.Defaults.Tasks = splitCommaList(p.Defaults.Tasks)
	if err := validateTaskList(p.Defaults.Tasks); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	for i := range p.Pairs {
		pair := &p.Pairs[i]

		source, err := NormalizeRepoSelector(pair.Source)
		if err != nil || source == "" {
			return fmt.Errorf("pair %d: invalid source %q", i+1, pair.Source)
		}
		pair.Source = source
		dest, err := NormalizeRepoSelector(pair.Dest)
		if err != nil || dest == "" {
			return fmt.Errorf("pair %d: invalid dest %q", i+1, pair.Dest)
		}
		pair.Dest = dest

		if pair.SourceBranch == "" {
			pair.SourceBranch = p.Defaults.SourceBranch
		}
		if pair.DestBranch == "" {
			pair.DestBranch = p.Defaults.DestBranch
		}
		if pair.StatusChecks == nil {
			pair.StatusChecks = p.Defaults.StatusChecks
		}
		if pair.PruneLabels == nil {
			prune := p.Defaults.PruneLabels
			pair.PruneLabels = &prune
		}

		pair.Tasks = splitCommaList(pair.Tasks)
		if len(pair.Tasks) == 0 {
			pair.Tasks = append([]string{}, p.Defaults.Tasks...)
		}
		if len(pair.Tasks) == 0 {
			pair.Tasks = []string{tasks.TaskProtection}
		}
		if err := validateTaskList(pair.Tasks); err != nil {
			return fmt.Errorf("pair %d (%s -> %s): %w", i+1, pair.Source, pair.Dest, err)
		}

		if pair.Source == pair.Dest && pair.SourceBranch == pair.DestBranch {
			return fmt.Errorf("pair %d: source and dest name the same branch", i+1)
		}
	}
	return nil
}

// CloneStatusChecks reports whether the pair mirrors required status check
// settings. Unspecified means yes.
func (p *PlanPair) CloneStatusChecks() bool {
	return p.StatusChecks == nil || *p.StatusChecks
}

// Prune reports whether the labels task deletes destination-only labels.
func (p *PlanPair) Prune() bool {
	return p.PruneLabels != nil && *p.PruneLabels
}

func validateTaskList(list []string) error {
	for _, task := range list {
		if !tasks.Known(task) {
			return fmt.Errorf("unsupported task %q (must be one of: %s)", task, strings.Join(tasks.All(), ", "))
		}
	}
	return nil
}
