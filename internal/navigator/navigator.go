// Package navigator resolves the active class and student from a flat list of students.
package navigator

import (
	"errors"
	"sort"

	"docverify/internal/model"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrNotInClass      = errors.New("student is not in the selected class")
)

// Classes returns the sorted set of distinct class names.
func Classes(students []*model.Student) []string {
	seen := make(map[string]struct{}, len(students))
	out := make([]string, 0)
	for _, s := range students {
		if _, ok := seen[s.ClassName]; ok {
			continue
		}
		seen[s.ClassName] = struct{}{}
		out = append(out, s.ClassName)
	}
	sort.Strings(out)
	return out
}

// InClass returns the students of class in input order.
func InClass(students []*model.Student, class string) []*model.Student {
	out := make([]*model.Student, 0)
	for _, s := range students {
		if s.ClassName == class {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the student with id, or nil.
func Find(students []*model.Student, id string) *model.Student {
	if id == "" {
		return nil
	}
	for _, s := range students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Selection is the resolved (class, student) pair. Empty strings mean nothing is selected.
type Selection struct {
	Class     string `json:"class"`
	StudentID string `json:"studentId"`
}

// Navigator holds the operator's class and student choice across list refreshes.
type Navigator struct {
	sel Selection
}

func New() *Navigator {
	return &Navigator{}
}

// Selection returns the current choice.
func (n *Navigator) Selection() Selection {
	return n.sel
}

// Resolve returns the selected student, or nil.
func (n *Navigator) Resolve(students []*model.Student) *model.Student {
	return Find(students, n.sel.StudentID)
}

// Sync applies the initialization and refresh policy: pick the first class
// when none (or a vanished one) is selected, and fall back to the first student
// of the selected class when the selected student no longer resolves or no
// longer belongs to that class.
func (n *Navigator) Sync(students []*model.Student) Selection {
	classes := Classes(students)
	if len(classes) == 0 {
		n.sel = Selection{}
		return n.sel
	}
	if !contains(classes, n.sel.Class) {
		n.sel.Class = classes[0]
	}
	if s := Find(students, n.sel.StudentID); s == nil || s.ClassName != n.sel.Class {
		n.sel.StudentID = firstID(InClass(students, n.sel.Class))
	}
	return n.sel
}

// SelectClass switches the class filter. A student outside the new class is
// replaced by the first student of that class.
func (n *Navigator) SelectClass(students []*model.Student, class string) Selection {
	n.sel.Class = class
	if s := Find(students, n.sel.StudentID); s == nil || s.ClassName != class {
		n.sel.StudentID = firstID(InClass(students, class))
	}
	return n.sel
}

// SelectStudent picks a student of the currently selected class.
func (n *Navigator) SelectStudent(students []*model.Student, id string) (Selection, error) {
	s := Find(students, id)
	if s == nil {
		return n.sel, ErrStudentNotFound
	}
	if s.ClassName != n.sel.Class {
		return n.sel, ErrNotInClass
	}
	n.sel.StudentID = id
	return n.sel, nil
}

// Jump forces the selection to a student regardless of the class filter.
func (n *Navigator) Jump(students []*model.Student, id string) (Selection, error) {
	s := Find(students, id)
	if s == nil {
		return n.sel, ErrStudentNotFound
	}
	n.sel = Selection{Class: s.ClassName, StudentID: s.ID}
	return n.sel, nil
}

func firstID(students []*model.Student) string {
	if len(students) == 0 {
		return ""
	}
	return students[0].ID
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
