package output

import "repomirror/internal/tasks"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - pair.started
// - task.result
// - pair.finished
// - run.finished
//
// JSON mode remains an aggregate of tasks.Result values.
type Event struct {
	Type string `json:"type"`
	Pair string `json:"pair,omitempty"`
	*tasks.Result
	Pairs    int `json:"pairs,omitempty"`
	Tasks    int `json:"tasks,omitempty"`
	ExitCode int `json:"exit_code,omitempty"`
}

func eventFromResult(r tasks.Result) Event {
	return Event{Type: "task.result", Pair: r.Source + " -> " + r.Dest, Result: &r}
}
