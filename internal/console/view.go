package console

import (
	"fmt"

	"docverify/internal/model"
	"docverify/internal/navigator"
	"docverify/internal/record"
	"docverify/internal/roster"
	"docverify/internal/viewer"
)

// Tone is the visual state of a document tab.
type Tone string

const (
	ToneMuted   Tone = "muted"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Empty-state messages of the document pane.
const (
	EmptyNoStudent  = "Pilih siswa."
	EmptyNoDocument = "Belum ada dokumen."
)

// ToneOf maps a status to its tab tone.
func ToneOf(s model.Status) Tone {
	switch s {
	case model.StatusPending:
		return ToneWarning
	case model.StatusApproved:
		return ToneSuccess
	case model.StatusRevision:
		return ToneDanger
	default:
		return ToneMuted
	}
}

type StudentItem struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	ClassName string `json:"className"`
}

type DocumentTab struct {
	Category model.Category `json:"category"`
	Label    string         `json:"label"`
	Status   model.Status   `json:"status"`
	Tone     Tone           `json:"tone"`
	Active   bool           `json:"active"`
}

type DataTab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FieldView is one rendered field. Value is the raw text for an input and
// Display the read-only rendering with the placeholder applied.
type FieldView struct {
	Label     string `json:"label"`
	Path      string `json:"path"`
	FullWidth bool   `json:"fullWidth"`
	Value     string `json:"value"`
	Display   string `json:"display"`
	Editable  bool   `json:"editable"`
}

type SectionView struct {
	Title  string      `json:"title"`
	Fields []FieldView `json:"fields"`
}

// View is an immutable snapshot of the console. Nothing in it aliases live state.
type View struct {
	Version    uint64              `json:"version"`
	Classes    []string            `json:"classes"`
	Students   []StudentItem       `json:"students"`
	Selection  navigator.Selection `json:"selection"`
	Student    *StudentItem        `json:"student,omitempty"`
	Category   model.Category      `json:"category"`
	Documents  []DocumentTab       `json:"documents"`
	Document   *model.Document     `json:"document,omitempty"`
	AdminNote  string              `json:"adminNote,omitempty"`
	DataTab    string              `json:"dataTab"`
	Tabs       []DataTab           `json:"tabs"`
	Sections   []SectionView       `json:"sections"`
	Editing    bool                `json:"editing"`
	Viewer     viewer.State        `json:"viewer"`
	Dialog     Dialog              `json:"dialog"`
	CanReview  bool                `json:"canReview"`
	CanUndo    bool                `json:"canUndo"`
	EmptyState string              `json:"emptyState,omitempty"`
	Notice     string              `json:"notice,omitempty"`
}

// View renders the current state.
func (c *Console) View() View {
	students := c.roster.Students()
	sel := c.nav.Selection()
	s := c.nav.Resolve(students)

	v := View{
		Version:   c.roster.Version(),
		Classes:   navigator.Classes(students),
		Students:  items(navigator.InClass(students, sel.Class)),
		Selection: sel,
		Category:  c.category,
		DataTab:   c.tab,
		Editing:   c.editing,
		Viewer:    c.viewer.State(),
		Dialog:    c.dialog,
		CanUndo:   c.roster.CanUndo(),
		Notice:    c.notice,
	}

	for _, info := range model.Categories {
		v.Documents = append(v.Documents, DocumentTab{
			Category: info.ID,
			Label:    info.Label,
			Status:   s.StatusOf(info.ID),
			Tone:     ToneOf(s.StatusOf(info.ID)),
			Active:   info.ID == c.category,
		})
	}
	for _, t := range record.Tabs {
		v.Tabs = append(v.Tabs, DataTab{ID: t.ID, Label: t.Label, Active: t.ID == c.tab})
	}

	if s == nil {
		v.EmptyState = EmptyNoStudent
		return v
	}

	item := StudentItem{ID: s.ID, FullName: s.FullName, ClassName: s.ClassName}
	v.Student = &item

	if doc := s.Document(c.category); doc != nil {
		d := *doc
		v.Document = &d
		v.AdminNote = d.AdminNote
		v.CanReview = true
	} else {
		v.EmptyState = EmptyNoDocument
	}

	if tab, ok := record.FindTab(c.tab); ok {
		v.Sections = sections(tab, s, c.editing)
	}
	return v
}

func items(students []*model.Student) []StudentItem {
	out := make([]StudentItem, 0, len(students))
	for _, s := range students {
		out = append(out, StudentItem{ID: s.ID, FullName: s.FullName, ClassName: s.ClassName})
	}
	return out
}

func sections(tab record.Tab, s *model.Student, editing bool) []SectionView {
	out := make([]SectionView, 0, len(tab.Sections))
	for _, sec := range tab.Sections {
		sv := SectionView{Title: sec.Title, Fields: make([]FieldView, 0, len(sec.Fields))}
		for _, f := range sec.Fields {
			raw, ok := roster.Get(s, f.Path)
			fv := FieldView{
				Label:     f.Label,
				Path:      f.Path,
				FullWidth: f.FullWidth,
				Display:   record.Display(raw, ok),
				Editable:  editing,
			}
			if ok && raw != nil {
				fv.Value = fmt.Sprint(raw)
			}
			sv.Fields = append(sv.Fields, fv)
		}
		out = append(out, sv)
	}
	return out
}
