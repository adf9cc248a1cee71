package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"docverify/internal/model"
)

// Kind names what changed.
type Kind string

const (
	KindApproved Kind = "document.approved"
	KindRejected Kind = "document.rejected"
	KindEdited   Kind = "record.edited"
	KindReverted Kind = "record.reverted"
)

// Event tells the host that in-memory state changed and should be persisted.
// Student is a snapshot taken when the event was raised.
type Event struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	StudentID string         `json:"student_id"`
	Category  model.Category `json:"category,omitempty"`
	Status    model.Status   `json:"status,omitempty"`
	Note      string         `json:"note,omitempty"`
	Path      string         `json:"path,omitempty"`
	Value     any            `json:"value,omitempty"`
	Version   uint64         `json:"version"`
	At        time.Time      `json:"at"`
	Student   *model.Student `json:"student,omitempty"`
}

// NewEvent stamps an event with an id, time and student snapshot.
func NewEvent(kind Kind, s *model.Student) Event {
	ev := Event{
		ID:   uuid.NewString(),
		Kind: kind,
		At:   time.Now().UTC(),
	}
	if s != nil {
		ev.StudentID = s.ID
		ev.Student = s.Clone()
	}
	return ev
}

// Notifier receives change events. Implementations must not block the caller
// and have no way to report failure back to it.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Sink delivers an event somewhere durable.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, ev Event)

func (f Func) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Send(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async delivers events to a Sink on a background worker, one at a time and
// in the order Notify was called, so an older snapshot of a student is never
// saved after a newer one. Delivery is best-effort: failures are logged and
// dropped.
type Async struct {
	sink    Sink
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	queue   []pending
	running bool
	wg      sync.WaitGroup
}

type pending struct {
	ctx context.Context
	ev  Event
}

// NewAsync wraps sink. A non-positive timeout defaults to five seconds.
func NewAsync(sink Sink, timeout time.Duration, logger *slog.Logger) *Async {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{sink: sink, timeout: timeout, logger: logger}
}

// Notify queues delivery and returns immediately.
func (a *Async) Notify(ctx context.Context, ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.wg.Add(1)
	a.queue = append(a.queue, pending{ctx: ctx, ev: ev})
	if !a.running {
		a.running = true
		go a.drain()
	}
}

// drain delivers queued events until the queue is empty. At most one drain
// runs at a time.
func (a *Async) drain() {
	for {
		a.mu.Lock()
		if len(a.queue) == 0 {
			a.running = false
			a.mu.Unlock()
			return
		}
		next := a.queue[0]
		a.queue[0] = pending{}
		a.queue = a.queue[1:]
		a.mu.Unlock()

		a.deliver(next.ctx, next.ev)
		a.wg.Done()
	}
}

func (a *Async) deliver(ctx context.Context, ev Event) {
	// Delivery outlives the request that raised the event.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	start := time.Now()
	if err := a.sink.Send(sendCtx, ev); err != nil {
		a.logger.Error("notify_failed",
			"event_id", ev.ID,
			"kind", ev.Kind,
			"student_id", ev.StudentID,
			"version", ev.Version,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	a.logger.Debug("notify_delivered", "event_id", ev.ID, "kind", ev.Kind, "student_id", ev.StudentID)
}

// Wait blocks until every queued delivery has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
