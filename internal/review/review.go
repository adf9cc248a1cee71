// Package review owns the approve/reject transitions of a document.
package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"docverify/internal/model"
	"docverify/internal/notify"
)

// ApprovedNote replaces any previous note when a document is approved.
const ApprovedNote = "Dokumen valid."

var (
	ErrNoDocument   = errors.New("no document for the selected category")
	ErrNoteRequired = errors.New("rejection note is required")
)

// Recorder observes completed transitions, e.g. for metrics.
type Recorder interface {
	Transition(action string, from model.Status)
}

// Versioner hands out the next change version, e.g. *roster.Roster.
type Versioner interface {
	Touch() uint64
}

// Reviewer applies review transitions in memory and then tells the notifier.
// The in-memory change stands even when the notification is lost.
type Reviewer struct {
	notifier notify.Notifier
	recorder Recorder
	versions Versioner
	now      func() time.Time
}

// New returns a Reviewer. A nil notifier discards events. Each transition
// bumps versions, when given, and stamps the event with the new version.
func New(notifier notify.Notifier, recorder Recorder, versions Versioner) *Reviewer {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Reviewer{notifier: notifier, recorder: recorder, versions: versions, now: time.Now}
}

// Approve marks doc as approved. APPROVED and REVISION are both re-enterable.
func (r *Reviewer) Approve(ctx context.Context, s *model.Student, doc *model.Document) error {
	if s == nil || doc == nil {
		return ErrNoDocument
	}
	from := doc.Status
	doc.Status = model.StatusApproved
	doc.AdminNote = ApprovedNote
	doc.UpdatedAt = r.now().UTC()

	r.emit(ctx, notify.KindApproved, s, doc)
	r.record("approve", from)
	return nil
}

// Reject sends doc back for revision with the operator's note stored verbatim.
func (r *Reviewer) Reject(ctx context.Context, s *model.Student, doc *model.Document, note string) error {
	if s == nil || doc == nil {
		return ErrNoDocument
	}
	if strings.TrimSpace(note) == "" {
		return ErrNoteRequired
	}
	from := doc.Status
	doc.Status = model.StatusRevision
	doc.AdminNote = note
	doc.UpdatedAt = r.now().UTC()

	r.emit(ctx, notify.KindRejected, s, doc)
	r.record("reject", from)
	return nil
}

func (r *Reviewer) emit(ctx context.Context, kind notify.Kind, s *model.Student, doc *model.Document) {
	ev := notify.NewEvent(kind, s)
	ev.Category = doc.Category
	ev.Status = doc.Status
	ev.Note = doc.AdminNote
	if r.versions != nil {
		ev.Version = r.versions.Touch()
	}
	r.notifier.Notify(ctx, ev)
}

func (r *Reviewer) record(action string, from model.Status) {
	if r.recorder != nil {
		r.recorder.Transition(action, from)
	}
}
