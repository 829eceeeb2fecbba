package tasks

// Task names as they appear in --tasks lists, plan files and results.
const (
	TaskProtection    = "protection"
	TaskLabels        = "labels"
	TaskDefaultBranch = "default-branch"
	TaskTeams         = "teams"
)

// Known returns whether name is a recognized task name.
func Known(name string) bool {
	switch name {
	case TaskProtection, TaskLabels, TaskDefaultBranch, TaskTeams:
		return true
	}
	return false
}

// All lists the known task names in execution order.
func All() []string {
	return []string{TaskProtection, TaskLabels, TaskDefaultBranch, TaskTeams}
}

type Status string

const (
	// StatusSynced means the destination now matches the source for this task.
	StatusSynced Status = "SYNCED"
	// StatusCleared means the source carried no configuration and the
	// destination's configuration was removed to match.
	StatusCleared Status = "CLEARED"
	// StatusSkipped means the task was not attempted (e.g. dry run).
	StatusSkipped Status = "SKIPPED"
	StatusError   Status = "ERROR"
)

// Result records the outcome of one task of one sync pair.
type Result struct {
	Task    string `json:"task"`
	Source  string `json:"source"`
	Dest    string `json:"dest"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	// Details contains simple key-value string pairs supporting the result
	// (e.g. label counts, review settings applied).
	Details map[string]string `json:"details,omitempty"`
}
