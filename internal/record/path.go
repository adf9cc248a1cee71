package record

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is rendered for absent or empty values.
const Placeholder = "-"

var (
	ErrInvalidPath  = errors.New("invalid field path")
	ErrNotContainer = errors.New("path crosses a non-container value")
)

// Patch is a single edit of one leaf addressed by a dotted path.
type Patch struct {
	Path  string `json:"path" validate:"required"`
	Value any    `json:"value"`
}

// Split validates a dotted path and returns its segments.
func Split(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return keys, nil
}

// Get walks rec along path. A missing intermediate map or leaf reports ok=false.
func Get(rec map[string]any, path string) (any, bool) {
	keys, err := Split(path)
	if err != nil {
		return nil, false
	}
	cur := rec
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	v, ok := cur[keys[len(keys)-1]]
	return v, ok
}

// SetResult describes what Set changed so the write can be undone.
type SetResult struct {
	// Created is the shortest path prefix that Set had to create, or "".
	Created string
	// Previous holds the old leaf value when HadPrevious is true.
	Previous    any
	HadPrevious bool
}

// Set writes value at path, creating every missing intermediate map.
// Existing non-map intermediates are never overwritten.
// rec must be non-nil.
func Set(rec map[string]any, path string, value any) (SetResult, error) {
	keys, err := Split(path)
	if err != nil {
		return SetResult{}, err
	}

	// Check the whole walk first so a failing write leaves rec untouched.
	cur := rec
	depth := 0
	for ; depth < len(keys)-1; depth++ {
		v, ok := cur[keys[depth]]
		if !ok || v == nil {
			break
		}
		next, isMap := v.(map[string]any)
		if !isMap {
			return SetResult{}, fmt.Errorf("%w: %s", ErrNotContainer, strings.Join(keys[:depth+1], "."))
		}
		cur = next
	}

	var res SetResult
	if depth < len(keys)-1 {
		res.Created = strings.Join(keys[:depth+1], ".")
		for ; depth < len(keys)-1; depth++ {
			next := map[string]any{}
			cur[keys[depth]] = next
			cur = next
		}
	}

	leaf := keys[len(keys)-1]
	res.Previous, res.HadPrevious = cur[leaf]
	cur[leaf] = value
	return res, nil
}

// Delete removes the leaf at path. Missing structure is a no-op.
func Delete(rec map[string]any, path string) {
	keys, err := Split(path)
	if err != nil {
		return
	}
	cur := rec
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, keys[len(keys)-1])
}

// Display formats a resolved value for read-only rendering.
func Display(v any, ok bool) string {
	if !ok || v == nil {
		return Placeholder
	}
	s := fmt.Sprint(v)
	if s == "" {
		return Placeholder
	}
	return s
}
