package engine

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"repomirror/internal/config"
	gh "repomirror/internal/github"
	"repomirror/internal/mirror"
	"repomirror/internal/output"
	"repomirror/internal/protection"
	"repomirror/internal/tasks"
)

func exitCodeForRun(fatal, partial bool) int {
	// Exit code contract:
	// 0 = clean run, every task synced
	// 2 = partial failure (some tasks errored)
	// 3 = fatal error (run did not start or was aborted)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

type Engine struct {
	Client *gh.Client

	// runPair is a test seam for pair execution.
	// If nil, Engine runs the real task syncers.
	runPair func(ctx context.Context, p Pair) []tasks.Result
}

func NewEngine(client *gh.Client) *Engine {
	return &Engine{
		Client: client,
	}
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if !cfg.Output.NoConsole {
		fmt.Fprintln(os.Stderr, "Resolving sync plan...")
	}
	plan, err := BuildPlan(ctx, e.Client, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving sync plan: %v\n", err)
		return exitCodeForRun(true, false)
	}
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Resolved %d sync pairs.\n", len(plan.Pairs))
	}

	if code, ok := maybeDryRun(cfg, plan); ok {
		return code
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false)
	}
	defer outMgr.Close()

	totalTasks := 0
	for _, p := range plan.Pairs {
		totalTasks += len(p.Tasks)
	}
	_ = outMgr.Write(output.Event{Type: "run.started", Pairs: len(plan.Pairs), Tasks: totalTasks})

	runner := e.runPair
	if runner == nil {
		runner = e.executePair
	}
	scheduler, err := NewScheduler(runner, cfg.Runtime.Concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting scheduler: %v\n", err)
		return exitCodeForRun(true, false)
	}

	resCh, errCh := scheduler.Execute(ctx, plan)

	hasErrors := false
	for res := range resCh {
		pairName := res.Pair.Source.String() + " -> " + res.Pair.Dest.String()
		_ = outMgr.Write(output.Event{Type: "pair.started", Pair: pairName})
		for _, r := range res.Results {
			if r.Status == tasks.StatusError {
				hasErrors = true
			}
			_ = outMgr.Write(r)
		}
		_ = outMgr.Write(output.Event{Type: "pair.finished", Pair: pairName})
	}

	var schedErr error
	// Drain scheduler errors; we only need to know whether any fatal error occurred.
	for err := range errCh {
		if err != nil {
			schedErr = err
		}
	}
	if schedErr != nil {
		fmt.Fprintf(os.Stderr, "Run aborted: %v\n", schedErr)
	}

	code := exitCodeForRun(schedErr != nil, hasErrors)
	_ = outMgr.Write(output.Event{Type: "run.finished", ExitCode: code})
	return code
}

func maybeDryRun(cfg *config.Config, plan *SyncPlan) (int, bool) {
	if !cfg.Sync.DryRun {
		return 0, false
	}

	fmt.Println("Resolved sync plan:")
	for _, p := range plan.Pairs {
		fmt.Printf("%s -> %s tasks=%v status_checks=%t prune_labels=%t\n",
			p.Source, p.Dest, p.Tasks, p.CloneStatusChecks, p.PruneLabels)
	}
	return 0, true
}

// executePair runs the pair's tasks strictly in order, producing one result
// per task. A failed task does not stop the remaining tasks: the tasks copy
// independent settings, so each gets its own verdict.
func (e *Engine) executePair(ctx context.Context, p Pair) []tasks.Result {
	results := make([]tasks.Result, 0, len(p.Tasks))
	for _, task := range p.Tasks {
		if ctx.Err() != nil {
			return results
		}
		switch task {
		case tasks.TaskProtection:
			results = append(results, e.runProtection(ctx, p))
		case tasks.TaskLabels:
			results = append(results, e.runLabels(ctx, p))
		case tasks.TaskDefaultBranch:
			results = append(results, e.runDefaultBranch(ctx, p))
		case tasks.TaskTeams:
			results = append(results, e.runTeams(ctx, p))
		default:
			results = append(results, tasks.Result{
				Task:    task,
				Source:  p.Source.String(),
				Dest:    p.Dest.String(),
				Status:  tasks.StatusError,
				Message: fmt.Sprintf("unknown task %q", task),
			})
		}
	}
	return results
}

func (e *Engine) runProtection(ctx context.Context, p Pair) tasks.Result {
	res := tasks.Result{
		Task:   tasks.TaskProtection,
		Source: p.Source.String(),
		Dest:   p.Dest.String(),
	}

	sync := protection.NewSynchronizer(e.Client, p.CloneStatusChecks)
	outcome, err := sync.Sync(ctx, p.Source, p.Dest)
	if err != nil {
		res.Status = tasks.StatusError
		res.Message = err.Error()
		return res
	}

	switch outcome {
	case protection.OutcomeCleared:
		res.Status = tasks.StatusCleared
		res.Message = "source unprotected; destination protection removed"
	default:
		res.Status = tasks.StatusSynced
		res.Message = "ruleset mirrored"
	}
	return res
}

func (e *Engine) runLabels(ctx context.Context, p Pair) tasks.Result {
	res := tasks.Result{
		Task:   tasks.TaskLabels,
		Source: p.SourceRepo().String(),
		Dest:   p.DestRepo().String(),
	}

	counts, err := mirror.NewLabelSyncer(e.Client).Sync(ctx, p.SourceRepo(), p.DestRepo(), p.PruneLabels)
	if err != nil {
		res.Status = tasks.StatusError
		res.Message = err.Error()
		return res
	}

	res.Status = tasks.StatusSynced
	res.Message = fmt.Sprintf("labels mirrored (%d created, %d updated, %d deleted)",
		counts.Created, counts.Updated, counts.Deleted)
	res.Details = map[string]string{
		"created": strconv.Itoa(counts.Created),
		"updated": strconv.Itoa(counts.Updated),
		"deleted": strconv.Itoa(counts.Deleted),
	}
	return res
}

func (e *Engine) runDefaultBranch(ctx context.Context, p Pair) tasks.Result {
	res := tasks.Result{
		Task:   tasks.TaskDefaultBranch,
		Source: p.SourceRepo().String(),
		Dest:   p.DestRepo().String(),
	}

	branch, err := mirror.NewDefaultBranchSyncer(e.Client).Sync(ctx, p.SourceRepo(), p.DestRepo())
	if err != nil {
		res.Status = tasks.StatusError
		res.Message = err.Error()
		return res
	}

	res.Status = tasks.StatusSynced
	res.Message = fmt.Sprintf("default branch set to %s", branch)
	res.Details = map[string]string{"branch": branch}
	return res
}

func (e *Engine) runTeams(ctx context.Context, p Pair) tasks.Result {
	res := tasks.Result{
		Task:   tasks.TaskTeams,
		Source: p.SourceRepo().String(),
		Dest:   p.DestRepo().String(),
	}

	attached, err := mirror.NewTeamSyncer(e.Client).Sync(ctx, p.SourceRepo(), p.DestRepo())
	res.Details = map[string]string{"attached": strconv.Itoa(attached)}
	if err != nil {
		res.Status = tasks.StatusError
		res.Message = err.Error()
		return res
	}

	res.Status = tasks.StatusSynced
	res.Message = fmt.Sprintf("%d teams attached", attached)
	return res
}
