package viewer

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docverify/internal/model"
)

// Phase is the load state of the current artifact.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Artifact is a renderable reference to a document's file.
type Artifact struct {
	Kind        model.ArtifactKind `json:"kind"`
	URL         string             `json:"url"`
	ContentType string             `json:"contentType,omitempty"`
	PageCount   int                `json:"pageCount,omitempty"`
	Width       int                `json:"width,omitempty"`
	Height      int                `json:"height,omitempty"`
	// Orientation is the EXIF orientation tag (1 = upright).
	Orientation int `json:"orientation,omitempty"`
}

// Fetcher resolves an artifact location. It may block; cancellation of ctx is
// a hint and the result of a canceled fetch is ignored anyway.
type Fetcher interface {
	Fetch(ctx context.Context, location string, kind model.ArtifactKind) (*Artifact, error)
}

// LoadRecorder observes how loads finish: "ok", "error" or "stale".
type LoadRecorder interface {
	ArtifactLoad(kind model.ArtifactKind, result string)
}

// Key identifies a selection. A load belongs to exactly one key.
type Key struct {
	StudentID string         `json:"studentId"`
	Category  model.Category `json:"category"`
}

// Load is a snapshot of the current load task.
type Load struct {
	Key        Key       `json:"key"`
	DocumentID string    `json:"documentId,omitempty"`
	Phase      Phase     `json:"phase"`
	Artifact   *Artifact `json:"artifact,omitempty"`
	Err        string    `json:"error,omitempty"`
}

// Loader runs at most one current fetch. Starting a new one cancels the
// previous task and any result it still delivers is dropped.
type Loader struct {
	fetcher  Fetcher
	recorder LoadRecorder

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  Load
}

func NewLoader(fetcher Fetcher, recorder LoadRecorder) *Loader {
	return &Loader{fetcher: fetcher, recorder: recorder, state: Load{Phase: PhaseIdle}}
}

// Start supersedes the current task. A nil doc leaves the loader idle.
// Failures are terminal for the key; there is no retry and no timeout.
func (l *Loader) Start(ctx context.Context, key Key, doc *model.Document) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++

	if doc == nil {
		l.state = Load{Key: key, Phase: PhaseIdle}
		return
	}

	kind := model.ArtifactImage
	if doc.MultiPage() {
		kind = model.ArtifactPDF
	}

	// The task outlives the event that started it.
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancel = cancel
	l.state = Load{Key: key, DocumentID: doc.ID, Phase: PhaseLoading}

	go l.run(taskCtx, l.seq, key, doc.Location, kind)
}

func (l *Loader) run(ctx context.Context, seq uint64, key Key, location string, kind model.ArtifactKind) {
	ctx, span := otel.Tracer("docverify/viewer").Start(ctx, "artifact.fetch")
	span.SetAttributes(
		attribute.String("student.id", key.StudentID),
		attribute.String("document.category", string(key.Category)),
		attribute.String("artifact.kind", string(kind)),
	)
	defer span.End()

	art, err := l.fetcher.Fetch(ctx, location, kind)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		span.SetAttributes(attribute.Bool("artifact.stale", true))
		l.observe(kind, "stale")
		return
	}
	l.cancel = nil

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		l.state.Phase = PhaseFailed
		l.state.Err = err.Error()
		l.observe(kind, "error")
		return
	}
	l.state.Phase = PhaseReady
	l.state.Artifact = art
	l.observe(kind, "ok")
}

func (l *Loader) observe(kind model.ArtifactKind, result string) {
	if l.recorder != nil {
		l.recorder.ArtifactLoad(kind, result)
	}
}

// State returns the current task snapshot.
func (l *Loader) State() Load {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.state
	if out.Artifact != nil {
		a := *out.Artifact
		out.Artifact = &a
	}
	return out
}

// Stop cancels the current task and drops its eventual result.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}
