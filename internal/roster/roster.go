// Package roster owns the in-session copy of the student list. Every record
// edit goes through Apply, which versions the change and keeps it undoable.
package roster

import (
	"context"
	"errors"
	"fmt"

	"docverify/internal/model"
	"docverify/internal/navigator"
	"docverify/internal/notify"
	"docverify/internal/record"
)

var ErrNothingToUndo = errors.New("nothing to undo")

// Lens is a typed accessor for a record path that maps onto a struct field
// instead of the student's nested data.
type Lens struct {
	Get func(s *model.Student) any
	Set func(s *model.Student, v any) error
}

// Lenses lists the typed top-level fields.
var Lenses = map[string]Lens{
	"fullName": {
		Get: func(s *model.Student) any { return s.FullName },
		Set: func(s *model.Student, v any) error {
			str, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: fullName must be text", record.ErrInvalidPath)
			}
			s.FullName = str
			return nil
		},
	},
}

type revision struct {
	studentID string
	path      string
	result    record.SetResult
}

// Roster is not safe for concurrent use; callers serialize access.
type Roster struct {
	students []*model.Student
	version  uint64
	history  []revision
	notifier notify.Notifier
}

// New clones students into a roster owned by the caller's session.
func New(students []model.Student, notifier notify.Notifier) *Roster {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	r := &Roster{notifier: notifier}
	r.Replace(students)
	return r
}

// Replace swaps in a refreshed student list. Undo history is dropped because
// it refers to the old records.
func (r *Roster) Replace(students []model.Student) {
	r.students = make([]*model.Student, 0, len(students))
	for i := range students {
		s := students[i].Clone()
		if s.Data == nil {
			s.Data = map[string]any{}
		}
		r.students = append(r.students, s)
	}
	r.history = nil
	r.version++
}

// Students returns the live records in input order.
func (r *Roster) Students() []*model.Student {
	return r.students
}

// Find returns the live record with id, or nil.
func (r *Roster) Find(id string) *model.Student {
	return navigator.Find(r.students, id)
}

// Version increases on every change.
func (r *Roster) Version() uint64 {
	return r.version
}

// Touch records a change made outside Apply, such as a review transition.
func (r *Roster) Touch() uint64 {
	r.version++
	return r.version
}

// CanUndo reports whether a record edit can be reverted.
func (r *Roster) CanUndo() bool {
	return len(r.history) > 0
}

// Get reads a field of a student through the lens table or its nested data.
func Get(s *model.Student, path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	if lens, ok := Lenses[path]; ok {
		return lens.Get(s), true
	}
	return record.Get(s.Data, path)
}

// Apply writes p into the student's record, creating missing containers.
func (r *Roster) Apply(ctx context.Context, studentID string, p record.Patch) (uint64, error) {
	s := r.Find(studentID)
	if s == nil {
		return r.version, navigator.ErrStudentNotFound
	}

	// The caller keeps its reference to p.Value; the record and the event
	// each get their own copy so later edits never touch shared maps.
	p.Value = model.CloneValue(p.Value)

	var res record.SetResult
	if lens, ok := Lenses[p.Path]; ok {
		prev := lens.Get(s)
		if err := lens.Set(s, p.Value); err != nil {
			return r.version, err
		}
		res = record.SetResult{Previous: prev, HadPrevious: true}
	} else {
		var err error
		if res, err = record.Set(s.Data, p.Path, p.Value); err != nil {
			return r.version, err
		}
	}

	r.history = append(r.history, revision{studentID: studentID, path: p.Path, result: res})
	r.version++

	ev := notify.NewEvent(notify.KindEdited, s)
	ev.Path = p.Path
	ev.Value = model.CloneValue(p.Value)
	ev.Version = r.version
	r.notifier.Notify(ctx, ev)
	return r.version, nil
}

// Undo reverts the most recent Apply, including any containers it created.
func (r *Roster) Undo(ctx context.Context) (record.Patch, error) {
	if len(r.history) == 0 {
		return record.Patch{}, ErrNothingToUndo
	}
	last := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]

	s := r.Find(last.studentID)
	if s == nil {
		return record.Patch{}, navigator.ErrStudentNotFound
	}

	switch lens, isLens := Lenses[last.path]; {
	case isLens:
		if err := lens.Set(s, last.result.Previous); err != nil {
			return record.Patch{}, err
		}
	case last.result.Created != "":
		record.Delete(s.Data, last.result.Created)
	case last.result.HadPrevious:
		if _, err := record.Set(s.Data, last.path, last.result.Previous); err != nil {
			return record.Patch{}, err
		}
	default:
		record.Delete(s.Data, last.path)
	}
	r.version++

	reverted := record.Patch{Path: last.path, Value: last.result.Previous}
	ev := notify.NewEvent(notify.KindReverted, s)
	ev.Path = reverted.Path
	ev.Value = model.CloneValue(reverted.Value)
	ev.Version = r.version
	r.notifier.Notify(ctx, ev)
	return reverted, nil
}
