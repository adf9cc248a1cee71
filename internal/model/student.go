package model

import "time"

// Student is an enrollment record. Profile groups (identifiers, address,
// guardians, welfare program) live in Data as nested maps addressed by
// dotted paths such as "father.name" or "dapodik.rt".
type Student struct {
	ID        string         `json:"id"`
	FullName  string         `json:"fullName"`
	ClassName string         `json:"className"`
	Data      map[string]any `json:"data"`
	Documents []Document     `json:"documents"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Document returns the active document of the given category.
// When several documents share a category the first one wins.
func (s *Student) Document(c Category) *Document {
	if s == nil {
		return nil
	}
	for i := range s.Documents {
		if s.Documents[i].Category == c {
			return &s.Documents[i]
		}
	}
	return nil
}

// StatusOf resolves the verification status for a category.
func (s *Student) StatusOf(c Category) Status {
	d := s.Document(c)
	if d == nil {
		return StatusUnsubmitted
	}
	return d.Status
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	out := *s
	out.Data = cloneMap(s.Data)
	if s.Documents != nil {
		out.Documents = make([]Document, len(s.Documents))
		copy(out.Documents, s.Documents)
	}
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the JSON-shaped containers (objects and arrays) in v.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = CloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
