// Package verify guards the submission path between the task session and
// the verification collaborator: it rejects empty proof locally, allows one
// in-flight attempt per task, and interprets the collaborator's answer.
//
// The gate never touches session state. Submit runs on a background
// goroutine while the countdown keeps ticking; the goroutine that owns the
// session folds the returned outcome in through Commit, or drops a late one
// through DiscardStale. Shared state keeps a single writer that way.
package verify

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aristath/kryta/internal/events"
	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/store"
)

var (
	// ErrEmptyProof means the submission had no text and no image. Rejected
	// before any collaborator contact.
	ErrEmptyProof = errors.New("proof is empty")

	// ErrAttemptInFlight means a verification for this task is already
	// running.
	ErrAttemptInFlight = errors.New("verification already in flight")
)

// Verifier is the collaborator call the gate sits in front of.
type Verifier interface {
	VerifyTask(ctx context.Context, taskID, proofText, proofImage string) (lifecycle.Outcome, error)
}

// Recorder is the slice of the store the gate writes attempt history and
// status updates to. Writes here are best effort: the collaborator remains
// the source of truth.
type Recorder interface {
	RecordAttempt(ctx context.Context, a store.Attempt) error
	UpdateTaskStatus(ctx context.Context, id string, status lifecycle.Status, reason string) error
}

// Gate serializes verification attempts per task. Safe for concurrent use.
type Gate struct {
	verifier Verifier
	recorder Recorder
	bus      *events.Bus

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewGate creates a verification gate. The recorder may be nil when no
// local cache is configured.
func NewGate(verifier Verifier, recorder Recorder, bus *events.Bus) *Gate {
	return &Gate{
		verifier: verifier,
		recorder: recorder,
		bus:      bus,
		inFlight: make(map[string]bool),
	}
}

// InFlight reports whether a verification attempt for the task is running.
func (g *Gate) InFlight(taskID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[taskID]
}

// Submit sends proof for the task and returns the interpreted outcome
// without applying it anywhere. The call blocks until the collaborator
// answers; the timer keeps its own cadence and is not paused by submission.
//
// Whether the outcome is still wanted when it arrives is the caller's call:
// the goroutine owning the session either folds it in with Commit or drops
// it with DiscardStale.
func (g *Gate) Submit(ctx context.Context, taskID, proofText, proofImage string) (lifecycle.Outcome, error) {
	if strings.TrimSpace(proofText) == "" && proofImage == "" {
		return nil, ErrEmptyProof
	}

	g.mu.Lock()
	if g.inFlight[taskID] {
		g.mu.Unlock()
		return nil, ErrAttemptInFlight
	}
	g.inFlight[taskID] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, taskID)
		g.mu.Unlock()
	}()

	outcome, err := g.verifier.VerifyTask(ctx, taskID, proofText, proofImage)
	if err != nil {
		// Transport or decode failure: the attempt never happened as far as
		// the session is concerned.
		return nil, err
	}
	return outcome, nil
}

// Commit folds an accepted outcome into the session, records the attempt,
// and publishes the result. Must run on the goroutine that owns the
// session. A Locked outcome additionally raises a LockdownEvent.
func (g *Gate) Commit(ctx context.Context, session *lifecycle.Session, outcome lifecycle.Outcome) error {
	if err := session.Apply(outcome); err != nil {
		return err
	}

	taskID := session.Task.ID
	g.record(ctx, taskID, outcome)
	g.publish(events.VerificationResultEvent{
		ID:        taskID,
		Outcome:   outcome,
		Timestamp: time.Now(),
	})

	if locked, ok := outcome.(lifecycle.Locked); ok {
		g.publish(events.LockdownEvent{
			Reason:    locked.Reason,
			Timestamp: time.Now(),
		})
	}

	return nil
}

// DiscardStale publishes a stale VerificationResultEvent for an outcome
// that arrived after its session closed. Nothing is recorded and no task
// state changes.
func (g *Gate) DiscardStale(taskID string, outcome lifecycle.Outcome) {
	g.publish(events.VerificationResultEvent{
		ID:        taskID,
		Outcome:   outcome,
		Stale:     true,
		Timestamp: time.Now(),
	})
}

func (g *Gate) record(ctx context.Context, taskID string, o lifecycle.Outcome) {
	if g.recorder == nil {
		return
	}

	name, reason := describeOutcome(o)
	if err := g.recorder.RecordAttempt(ctx, store.Attempt{
		TaskID:  taskID,
		Outcome: name,
		Reason:  reason,
	}); err != nil {
		log.Printf("Failed to record verification attempt for %s: %v", taskID, err)
	}

	status := lifecycle.StatusRetry
	if _, ok := o.(lifecycle.Completed); ok {
		status = lifecycle.StatusCompleted
	} else if _, ok := o.(lifecycle.Partial); ok {
		status = lifecycle.StatusPartial
	}
	if err := g.recorder.UpdateTaskStatus(ctx, taskID, status, reason); err != nil {
		log.Printf("Failed to cache task status for %s: %v", taskID, err)
	}
}

func (g *Gate) publish(e events.Event) {
	if g.bus == nil {
		return
	}
	topic := events.TopicTask
	if e.EventType() == events.EventTypeLockdown {
		topic = events.TopicSystem
	}
	g.bus.Publish(topic, e)
}

// describeOutcome flattens a sealed outcome into the attempt log's
// name/reason columns.
func describeOutcome(o lifecycle.Outcome) (string, string) {
	switch v := o.(type) {
	case lifecycle.Completed:
		return "completed", ""
	case lifecycle.Partial:
		return "partial", v.Reason
	case lifecycle.Retry:
		return "retry", v.Reason
	case lifecycle.Locked:
		return "locked", v.Reason
	default:
		return "unknown", ""
	}
}
