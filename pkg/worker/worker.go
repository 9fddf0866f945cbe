// Package worker maps task envelopes onto analysis kernels so hosts can run
// the engine off their hot thread. The engine itself stays synchronous; the
// worker owns the goroutine boundary and the envelope protocol:
//
//	task:  {id, module, function, args}
//	reply: {id, status, result|error|progress}
//
// with status one of ready, progress, complete, error. Module and function
// names form a closed set validated before any work starts.
package worker

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/guinetik/netstats/pkg/analysis"
	"github.com/guinetik/netstats/pkg/debug"
)

// Status values carried by replies.
type Status string

const (
	StatusReady    Status = "ready"
	StatusProgress Status = "progress"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Task is one unit of work for the harness.
type Task struct {
	ID       string          `json:"id"`
	Module   string          `json:"module"`
	Function string          `json:"function"`
	Args     json.RawMessage `json:"args"`
}

// Reply is one message back to the host. Progress replies stream during the
// computation; exactly one terminal complete or error reply follows.
type Reply struct {
	ID       string          `json:"id"`
	Status   Status          `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Progress float64         `json:"progress,omitempty"`
}

// statsArgs is the argument payload for the stats module.
type statsArgs struct {
	Edges    []analysis.Edge `json:"edges"`
	Features []string        `json:"features"`
}

// louvainArgs is the argument payload for the louvain module.
type louvainArgs struct {
	Nodes     []string        `json:"nodes"`
	Edges     []analysis.Edge `json:"edges"`
	Partition map[string]int  `json:"partition,omitempty"`
}

// handler executes a validated task, reporting progress through fn.
type handler func(args json.RawMessage, fn analysis.ProgressFunc) (any, error)

// dispatch is the closed set of module/function pairs the harness accepts.
var dispatch = map[string]handler{
	"stats.analyze":   runAnalyze,
	"louvain.execute": runLouvain,
}

// Validate checks the task envelope against the closed dispatch set without
// running anything.
func Validate(task Task) error {
	key := task.Module + "." + task.Function
	if _, ok := dispatch[key]; !ok {
		return fmt.Errorf("task %s: %s: %w", task.ID, key, analysis.ErrUnknownFeature)
	}
	return nil
}

// Run executes one task synchronously, streaming replies to emit. The ready
// reply is sent first, then progress replies, then a terminal reply; a task
// that fails validation gets a single error reply and no ready reply. emit
// must not block indefinitely.
func Run(task Task, emit func(Reply)) {
	if err := Validate(task); err != nil {
		emit(Reply{ID: task.ID, Status: StatusError, Error: err.Error()})
		return
	}
	emit(Reply{ID: task.ID, Status: StatusReady})

	h := dispatch[task.Module+"."+task.Function]
	result, err := h(task.Args, func(fraction float64) {
		emit(Reply{ID: task.ID, Status: StatusProgress, Progress: fraction})
	})
	if err != nil {
		emit(Reply{ID: task.ID, Status: StatusError, Error: err.Error()})
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		emit(Reply{ID: task.ID, Status: StatusError, Error: err.Error()})
		return
	}
	emit(Reply{ID: task.ID, Status: StatusComplete, Result: payload})
}

func runAnalyze(args json.RawMessage, fn analysis.ProgressFunc) (any, error) {
	var a statsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("decode stats args: %w", err)
	}
	features := make([]analysis.Feature, 0, len(a.Features))
	for _, name := range a.Features {
		f, err := analysis.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	cfg := analysis.DefaultConfig()
	cfg.Progress = fn
	res, err := analysis.Analyze(a.Edges, features, &cfg)
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

func runLouvain(args json.RawMessage, fn analysis.ProgressFunc) (any, error) {
	var a louvainArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("decode louvain args: %w", err)
	}
	l := analysis.NewLouvain()
	l.SetNodes(a.Nodes)
	if err := l.SetEdges(a.Edges); err != nil {
		return nil, err
	}
	if a.Partition != nil {
		l.SetPartitionInit(a.Partition)
	}
	l.SetProgress(fn)
	return l.Execute()
}

// Pool runs tasks concurrently, each on its own goroutine, with replies
// funnelled to a single channel. Replies from different tasks interleave;
// replies for one task stay ordered.
type Pool struct {
	workers int
}

// NewPool returns a pool running at most workers tasks at once.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Process drains tasks, emitting every reply on the returned channel. The
// channel closes once the tasks channel is closed and every started task has
// finished. Cancelling ctx stops starting new tasks (the remaining ones are
// drained and dropped) and drops further replies, but lets running kernels
// finish (kernels do not suspend).
func (p *Pool) Process(ctx context.Context, tasks <-chan Task) <-chan Reply {
	replies := make(chan Reply)
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(p.workers)

	go func() {
		defer close(replies)
		for task := range tasks {
			if ctx.Err() != nil {
				debug.Log("pool: dropping task %s after cancellation", task.ID)
				continue
			}
			task := task
			grp.Go(func() error {
				Run(task, func(r Reply) {
					select {
					case replies <- r:
					case <-ctx.Done():
					}
				})
				return nil
			})
		}
		_ = grp.Wait()
	}()

	return replies
}
