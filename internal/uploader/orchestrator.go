package uploader

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"rehearse/internal/pkg/filepolicy"
)

type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Task is one file's upload state. Tasks are plain values: the
// orchestrator replaces the whole record on every change, so a Task a
// caller holds never mutates under it.
type Task struct {
	ID       string
	Name     string
	Size     int64
	Status   Status
	Progress int
	Error    string
	Result   *FileInfo
}

func (t Task) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusError || t.Status == StatusCancelled
}

// Rejected is a file that failed client-side validation; no task was
// created for it and no request was issued.
type Rejected struct {
	Name string
	Err  error
}

var (
	ErrUnknownTask  = errors.New("unknown upload task")
	ErrNotUploading = errors.New("task is not uploading")
	ErrNotRetryable = errors.New("only failed tasks can be retried")
	ErrNotTerminal  = errors.New("task is still uploading")
)

// Options carries the orchestrator's observers. OnTaskUpdate fires
// after every task state change with the replaced record; OnFileAdded
// fires once per completed upload so a displayed file listing can be
// extended without a reload. Both may be nil.
type Options struct {
	OnTaskUpdate func(Task)
	OnFileAdded  func(*FileInfo)
}

// Sender is the transport seam: one call moves one file and returns
// exactly one outcome. *Transport implements it.
type Sender interface {
	Send(ctx context.Context, src Source, onProgress func(int)) (*FileInfo, error)
}

// Orchestrator drives N concurrent transports for batch submissions
// and owns the mutable set of upload tasks. All methods return
// immediately; outcomes arrive through the observers.
type Orchestrator struct {
	transport Sender
	policy    filepolicy.Policy
	opts      Options

	mu      sync.Mutex
	tasks   map[string]Task
	order   []string
	sources map[string]Source
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewOrchestrator(transport Sender, policy filepolicy.Policy, opts Options) *Orchestrator {
	return &Orchestrator{
		transport: transport,
		policy:    policy,
		opts:      opts,
		tasks:     make(map[string]Task),
		sources:   make(map[string]Source),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// SubmitBatch validates the batch and starts one transport per
// accepted file, all concurrently. A batch over the size cap creates
// zero tasks and returns the batch-level error. Per-file validation
// failures come back in rejected; they never block sibling files.
func (o *Orchestrator) SubmitBatch(ctx context.Context, sources []Source) (ids []string, rejected []Rejected, err error) {
	if err := o.policy.CheckBatch(len(sources)); err != nil {
		return nil, nil, err
	}

	for _, src := range sources {
		if err := o.policy.CheckFile(src.Size, src.MimeType); err != nil {
			rejected = append(rejected, Rejected{Name: src.Name, Err: err})
			continue
		}
		ids = append(ids, o.start(ctx, src))
	}
	return ids, rejected, nil
}

// Cancel aborts an in-flight task. The task transitions to Cancelled
// right away; whatever its transport later returns is discarded.
func (o *Orchestrator) Cancel(id string) error {
	o.mu.Lock()
	t, ok := o.tasks[id]
	if !ok {
		o.mu.Unlock()
		return ErrUnknownTask
	}
	if t.Status != StatusUploading {
		o.mu.Unlock()
		return ErrNotUploading
	}

	cancel := o.cancels[id]
	delete(o.cancels, id)
	t.Status = StatusCancelled
	o.tasks[id] = t
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.notify(t)
	return nil
}

// Retry replaces a failed task with a brand-new task for the same
// payload, starting again at 0%. The failed task disappears from the
// visible set.
func (o *Orchestrator) Retry(ctx context.Context, id string) (string, error) {
	o.mu.Lock()
	t, ok := o.tasks[id]
	if !ok {
		o.mu.Unlock()
		return "", ErrUnknownTask
	}
	if t.Status != StatusError {
		o.mu.Unlock()
		return "", ErrNotRetryable
	}
	src, ok := o.sources[id]
	if !ok {
		o.mu.Unlock()
		return "", ErrUnknownTask
	}
	o.remove(id)
	o.mu.Unlock()

	return o.start(ctx, src), nil
}

// Dismiss drops a terminal task from the visible set. Persisted server
// state is untouched.
func (o *Orchestrator) Dismiss(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, ok := o.tasks[id]
	if !ok {
		return ErrUnknownTask
	}
	if !t.Terminal() {
		return ErrNotTerminal
	}
	o.remove(id)
	return nil
}

// Tasks returns a snapshot of all tasks in insertion order.
func (o *Orchestrator) Tasks() []Task {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Task, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.tasks[id])
	}
	return out
}

// Task returns one task's current record.
func (o *Orchestrator) Task(id string) (Task, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, ok := o.tasks[id]
	return t, ok
}

// Wait blocks until every started transport goroutine has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) start(ctx context.Context, src Source) string {
	id := uuid.New().String()
	taskCtx, cancel := context.WithCancel(ctx)

	t := Task{
		ID:     id,
		Name:   src.Name,
		Size:   src.Size,
		Status: StatusUploading,
	}

	o.mu.Lock()
	o.tasks[id] = t
	o.order = append(o.order, id)
	o.sources[id] = src
	o.cancels[id] = cancel
	o.mu.Unlock()

	o.notify(t)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()

		result, err := o.transport.Send(taskCtx, src, func(pct int) {
			o.progress(id, pct)
		})
		o.finish(id, result, err)
	}()

	return id
}

func (o *Orchestrator) progress(id string, pct int) {
	o.mu.Lock()
	t, ok := o.tasks[id]
	if !ok || t.Status != StatusUploading || pct <= t.Progress {
		o.mu.Unlock()
		return
	}
	t.Progress = pct
	o.tasks[id] = t
	o.mu.Unlock()

	o.notify(t)
}

// finish applies the transport's outcome exactly once. A task that was
// cancelled (or dismissed) in the meantime keeps its state: a cancelled
// transport never surfaces a late success or error.
func (o *Orchestrator) finish(id string, result *FileInfo, err error) {
	o.mu.Lock()
	t, ok := o.tasks[id]
	if !ok || t.Status != StatusUploading {
		o.mu.Unlock()
		return
	}
	delete(o.cancels, id)

	switch {
	case err == nil:
		t.Status = StatusCompleted
		t.Progress = 100
		t.Result = result
	case errors.Is(err, ErrCancelled):
		t.Status = StatusCancelled
	default:
		t.Status = StatusError
		t.Error = err.Error()
	}
	o.tasks[id] = t
	o.mu.Unlock()

	o.notify(t)
	if t.Status == StatusCompleted && o.opts.OnFileAdded != nil {
		o.opts.OnFileAdded(result)
	}
}

// remove must be called with the lock held.
func (o *Orchestrator) remove(id string) {
	delete(o.tasks, id)
	delete(o.sources, id)
	delete(o.cancels, id)
	for i, other := range o.order {
		if other == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *Orchestrator) notify(t Task) {
	if o.opts.OnTaskUpdate != nil {
		o.opts.OnTaskUpdate(t)
	}
}
