// Package console composes navigation, review, record editing and the
// document viewer into one operator session.
package console

import (
	"context"
	"errors"

	"docverify/internal/model"
	"docverify/internal/navigator"
	"docverify/internal/record"
	"docverify/internal/review"
	"docverify/internal/roster"
	"docverify/internal/viewer"
)

var (
	ErrReadOnly        = errors.New("record is read-only outside edit mode")
	ErrInvalidTab      = errors.New("unknown data tab")
	ErrInvalidCategory = errors.New("unknown document category")
	ErrUnknownClass    = errors.New("unknown class")
	ErrDialogClosed    = errors.New("rejection dialog is not open")
)

const (
	NoticeApproved = "Dokumen disetujui."
	NoticeRejected = "Dokumen dikembalikan untuk revisi."
	NoticeReverted = "Perubahan dibatalkan."
)

// Dialog is the rejection dialog.
type Dialog struct {
	Open  bool   `json:"open"`
	Draft string `json:"draft"`
}

// Console is one operator's view over a shared roster.
// It is not safe for concurrent use.
type Console struct {
	roster   *roster.Roster
	reviewer *review.Reviewer
	viewer   *viewer.Viewer
	nav      *navigator.Navigator

	category model.Category
	tab      string
	editing  bool
	dialog   Dialog
	notice   string
}

// New opens a console on the first class and student of r.
func New(ctx context.Context, r *roster.Roster, rev *review.Reviewer, v *viewer.Viewer) *Console {
	c := &Console{
		roster:   r,
		reviewer: rev,
		viewer:   v,
		nav:      navigator.New(),
		category: model.CategoryDiploma,
		tab:      record.TabPersonal,
	}
	c.Refresh(ctx)
	return c
}

// Refresh re-applies the selection policy after the roster changed.
func (c *Console) Refresh(ctx context.Context) {
	c.nav.Sync(c.roster.Students())
	c.sync(ctx)
}

// sync points the viewer at the active document.
func (c *Console) sync(ctx context.Context) {
	s := c.nav.Resolve(c.roster.Students())
	key := viewer.Key{Category: c.category}
	if s != nil {
		key.StudentID = s.ID
	}
	c.viewer.Show(ctx, key, s.Document(c.category))
}

func (c *Console) selectionChanged(ctx context.Context, before navigator.Selection, cat model.Category) {
	if before != c.nav.Selection() || cat != c.category {
		c.dialog = Dialog{}
	}
	c.sync(ctx)
}

func (c *Console) SelectClass(ctx context.Context, class string) error {
	c.notice = ""
	students := c.roster.Students()
	if len(navigator.InClass(students, class)) == 0 {
		return ErrUnknownClass
	}
	before := c.nav.Selection()
	c.nav.SelectClass(students, class)
	c.selectionChanged(ctx, before, c.category)
	return nil
}

func (c *Console) SelectStudent(ctx context.Context, id string) error {
	c.notice = ""
	before := c.nav.Selection()
	if _, err := c.nav.SelectStudent(c.roster.Students(), id); err != nil {
		return err
	}
	c.selectionChanged(ctx, before, c.category)
	return nil
}

// Jump selects a student regardless of the class filter.
func (c *Console) Jump(ctx context.Context, id string) error {
	c.notice = ""
	before := c.nav.Selection()
	if _, err := c.nav.Jump(c.roster.Students(), id); err != nil {
		return err
	}
	c.selectionChanged(ctx, before, c.category)
	return nil
}

func (c *Console) SelectDocument(ctx context.Context, cat model.Category) error {
	c.notice = ""
	if !cat.Valid() {
		return ErrInvalidCategory
	}
	prev := c.category
	c.category = cat
	c.selectionChanged(ctx, c.nav.Selection(), prev)
	return nil
}

// SelectTab switches the data sub-tab. Edits are never buffered, so nothing is lost.
func (c *Console) SelectTab(tab string) error {
	c.notice = ""
	if _, ok := record.FindTab(tab); !ok {
		return ErrInvalidTab
	}
	c.tab = tab
	return nil
}

// ToggleEdit flips edit mode. Leaving it performs no validation or rollback.
func (c *Console) ToggleEdit() bool {
	c.notice = ""
	c.editing = !c.editing
	return c.editing
}

// Edit writes one field of the selected student.
func (c *Console) Edit(ctx context.Context, p record.Patch) error {
	c.notice = ""
	if !c.editing {
		return ErrReadOnly
	}
	s := c.nav.Resolve(c.roster.Students())
	if s == nil {
		return navigator.ErrStudentNotFound
	}
	_, err := c.roster.Apply(ctx, s.ID, p)
	return err
}

// Undo reverts the latest record edit on the roster.
func (c *Console) Undo(ctx context.Context) error {
	c.notice = ""
	if _, err := c.roster.Undo(ctx); err != nil {
		return err
	}
	c.notice = NoticeReverted
	return nil
}

func (c *Console) document() (*model.Student, *model.Document) {
	s := c.nav.Resolve(c.roster.Students())
	return s, s.Document(c.category)
}

func (c *Console) Approve(ctx context.Context) error {
	c.notice = ""
	s, doc := c.document()
	if err := c.reviewer.Approve(ctx, s, doc); err != nil {
		return err
	}
	c.notice = NoticeApproved
	return nil
}

// OpenReject opens the rejection dialog with an empty draft.
func (c *Console) OpenReject() error {
	c.notice = ""
	if _, doc := c.document(); doc == nil {
		return review.ErrNoDocument
	}
	c.dialog = Dialog{Open: true}
	return nil
}

func (c *Console) DraftNote(note string) error {
	if !c.dialog.Open {
		return ErrDialogClosed
	}
	c.dialog.Draft = note
	return nil
}

// ConfirmReject rejects the active document with the draft and closes the
// dialog. On error the dialog stays open with its draft.
func (c *Console) ConfirmReject(ctx context.Context) error {
	c.notice = ""
	if !c.dialog.Open {
		return ErrDialogClosed
	}
	s, doc := c.document()
	if err := c.reviewer.Reject(ctx, s, doc, c.dialog.Draft); err != nil {
		return err
	}
	c.dialog = Dialog{}
	c.notice = NoticeRejected
	return nil
}

// CancelReject discards the draft without side effects.
func (c *Console) CancelReject() {
	c.notice = ""
	c.dialog = Dialog{}
}

func (c *Console) ZoomIn() float64 {
	c.notice = ""
	return c.viewer.ZoomIn()
}

func (c *Console) ZoomOut() float64 {
	c.notice = ""
	return c.viewer.ZoomOut()
}

func (c *Console) SetZoom(z float64) float64 {
	c.notice = ""
	return c.viewer.SetZoom(z)
}

func (c *Console) SetLayout(l viewer.Layout) error {
	c.notice = ""
	return c.viewer.SetLayout(l)
}

func (c *Console) ToggleDocument() viewer.Layout {
	c.notice = ""
	return c.viewer.ToggleDocument()
}

// Close stops the session's in-flight artifact load.
func (c *Console) Close() {
	c.viewer.Close()
}
