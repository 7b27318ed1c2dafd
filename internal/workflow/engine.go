// Package workflow runs multi-step conversations that collect validated
// fields one message at a time and commit them in a single call.
//
// Each actor has at most one active flow. Input that fails a step's
// validator leaves the session at the same step; the final valid input
// triggers the flow's Commit, after which the session is cleared whether
// the commit succeeded or not.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/session"
)

var (
	// ErrNoSession is returned by Handle when the actor has no active flow.
	ErrNoSession = errors.New("no active workflow")

	// ErrUnknownFlow is returned for flow names that were never registered.
	ErrUnknownFlow = errors.New("unknown workflow")
)

// Step collects one field.
type Step struct {
	Field    string
	Prompt   string
	Validate Validator
}

// CommitFunc performs the flow's effect with the collected fields and
// returns the text shown on success.
type CommitFunc func(ctx context.Context, s *session.Session) (string, error)

// Flow is a linear chain of steps ending in a commit.
type Flow struct {
	Name   string
	Steps  []Step
	Commit CommitFunc
}

// Status is what a single input did to the session.
type Status int

const (
	// StatusAdvanced means the input was stored and the next step prompted.
	StatusAdvanced Status = iota
	// StatusRejected means the input failed validation; same step again.
	StatusRejected
	// StatusCommitted means the flow finished and its commit succeeded.
	StatusCommitted
	// StatusFailed means the flow finished and its commit returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAdvanced:
		return "advanced"
	case StatusRejected:
		return "rejected"
	case StatusCommitted:
		return "committed"
	default:
		return "failed"
	}
}

// Outcome reports the result of one input.
type Outcome struct {
	Flow   string
	Status Status

	// Prompt is the text of the step now awaiting input. Set for
	// StatusAdvanced and StatusRejected.
	Prompt string

	// Summary is the commit's success text.
	Summary string

	// Err is a *ValidationError for StatusRejected or the commit error for
	// StatusFailed.
	Err error
}

// Done reports whether the flow ended with this input.
func (o Outcome) Done() bool {
	return o.Status == StatusCommitted || o.Status == StatusFailed
}

// Engine dispatches input to the active flow of each actor.
type Engine struct {
	store  session.Store
	logger *slog.Logger

	mu    sync.RWMutex
	flows map[string]*Flow

	// OnCommit, when set, is called after every commit attempt.
	OnCommit func(flow string, err error)
}

// NewEngine creates an engine keeping sessions in store.
func NewEngine(store session.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger, flows: make(map[string]*Flow)}
}

// Register adds a flow. Names must be unique and flows need at least one
// step and a commit.
func (e *Engine) Register(f *Flow) error {
	if f == nil || f.Name == "" {
		return errors.New("flow needs a name")
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("flow %q has no steps", f.Name)
	}
	if f.Commit == nil {
		return fmt.Errorf("flow %q has no commit", f.Name)
	}
	for i, st := range f.Steps {
		if st.Field == "" || st.Validate == nil {
			return fmt.Errorf("flow %q step %d needs a field and a validator", f.Name, i)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.flows[f.Name]; ok {
		return fmt.Errorf("flow %q already registered", f.Name)
	}
	e.flows[f.Name] = f
	return nil
}

func (e *Engine) flow(name string) (*Flow, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.flows[name]
	return f, ok
}

// Start begins flow for actor, replacing any flow already in progress.
// seed carries context chosen before the flow started, such as the
// selected club. It returns the first prompt.
func (e *Engine) Start(ctx context.Context, actor models.ActorID, flow string, seed map[string]string) (string, error) {
	f, ok := e.flow(flow)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFlow, flow)
	}

	s := session.New(actor, f.Name)
	maps.Copy(s.Fields, seed)
	if err := e.store.Put(ctx, s); err != nil {
		return "", fmt.Errorf("start %s: %w", f.Name, err)
	}
	e.logger.Debug("workflow started", "flow", f.Name, "actor_id", actor)
	return f.Steps[0].Prompt, nil
}

// Active returns the name of the actor's current flow.
func (e *Engine) Active(ctx context.Context, actor models.ActorID) (string, bool, error) {
	s, err := e.store.Get(ctx, actor)
	if errors.Is(err, session.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s.Flow, true, nil
}

// Cancel clears the actor's session without committing. It reports
// whether a flow was in progress.
func (e *Engine) Cancel(ctx context.Context, actor models.ActorID) (bool, error) {
	name, ok, err := e.Active(ctx, actor)
	if err != nil || !ok {
		return false, err
	}
	if err := e.store.Delete(ctx, actor); err != nil {
		return false, fmt.Errorf("cancel %s: %w", name, err)
	}
	e.logger.Debug("workflow cancelled", "flow", name, "actor_id", actor)
	return true, nil
}

// Handle feeds one raw input to the actor's active flow.
func (e *Engine) Handle(ctx context.Context, actor models.ActorID, input string) (Outcome, error) {
	s, err := e.store.Get(ctx, actor)
	if errors.Is(err, session.ErrNotFound) {
		return Outcome{}, ErrNoSession
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load session: %w", err)
	}

	f, ok := e.flow(s.Flow)
	if !ok || s.Step < 0 || s.Step >= len(f.Steps) {
		if err := e.store.Delete(ctx, actor); err != nil {
			e.logger.Error("failed to clear broken session", "actor_id", actor, "error", err)
		}
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownFlow, s.Flow)
	}

	step := f.Steps[s.Step]
	value, verr := step.Validate(input)
	if verr != nil {
		// Put again so the expiry restarts.
		if err := e.store.Put(ctx, s); err != nil {
			return Outcome{}, fmt.Errorf("save session: %w", err)
		}
		return Outcome{
			Flow:   f.Name,
			Status: StatusRejected,
			Prompt: step.Prompt,
			Err:    &ValidationError{Field: step.Field, Reason: verr.Error()},
		}, nil
	}

	s.Set(step.Field, value)
	s.Step++
	if s.Step < len(f.Steps) {
		if err := e.store.Put(ctx, s); err != nil {
			return Outcome{}, fmt.Errorf("save session: %w", err)
		}
		return Outcome{Flow: f.Name, Status: StatusAdvanced, Prompt: f.Steps[s.Step].Prompt}, nil
	}

	return e.commit(ctx, f, s), nil
}

func (e *Engine) commit(ctx context.Context, f *Flow, s *session.Session) (out Outcome) {
	out = Outcome{Flow: f.Name}

	defer func() {
		if err := e.store.Delete(context.WithoutCancel(ctx), s.Actor); err != nil {
			e.logger.Error("failed to clear session after commit", "flow", f.Name, "actor_id", s.Actor, "error", err)
		}
		if e.OnCommit != nil {
			e.OnCommit(f.Name, out.Err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("workflow commit panicked", "flow", f.Name, "actor_id", s.Actor, "panic", r)
			out.Status = StatusFailed
			out.Err = fmt.Errorf("commit %s panicked: %v", f.Name, r)
		}
	}()

	summary, err := f.Commit(ctx, s)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		return out
	}
	out.Status = StatusCommitted
	out.Summary = summary
	return out
}
