// Package viewer keeps the document pane in sync with the selected document.
package viewer

import (
	"context"
	"errors"
	"math"

	"docverify/internal/model"
)

// Layout is the split between the data pane and the document pane.
type Layout string

const (
	LayoutSplit    Layout = "split"
	LayoutDocument Layout = "document"
	LayoutData     Layout = "data"
)

// DefaultZoom is applied on every selection change.
const DefaultZoom = 1.0

var ErrInvalidLayout = errors.New("invalid layout")

// Options bounds the zoom factor.
type Options struct {
	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64
}

// State is what the pane renders.
type State struct {
	Zoom        float64 `json:"zoom"`
	ZoomPercent int     `json:"zoomPercent"`
	Layout      Layout  `json:"layout"`
	Load        Load    `json:"load"`
}

type Viewer struct {
	opts   Options
	loader *Loader

	zoom   float64
	layout Layout
	key    Key
	docID  string
	docLoc string
}

func New(opts Options, loader *Loader) *Viewer {
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = 0.2
	}
	if opts.ZoomMin <= 0 {
		opts.ZoomMin = 0.2
	}
	if opts.ZoomMax < opts.ZoomMin {
		opts.ZoomMax = 4.0
	}
	return &Viewer{opts: opts, loader: loader, zoom: DefaultZoom, layout: LayoutSplit}
}

// Show points the viewer at doc for the given selection. Zoom resets when the
// student or category changes; the artifact reloads when the document changes.
func (v *Viewer) Show(ctx context.Context, key Key, doc *model.Document) {
	keyChanged := key != v.key
	if keyChanged {
		v.zoom = DefaultZoom
	}

	var id, loc string
	if doc != nil {
		id, loc = doc.ID, doc.Location
	}
	if keyChanged || id != v.docID || loc != v.docLoc {
		v.loader.Start(ctx, key, doc)
	}
	v.key, v.docID, v.docLoc = key, id, loc
}

func (v *Viewer) ZoomIn() float64  { return v.SetZoom(v.zoom + v.opts.ZoomStep) }
func (v *Viewer) ZoomOut() float64 { return v.SetZoom(v.zoom - v.opts.ZoomStep) }

// SetZoom clamps z to the configured range.
func (v *Viewer) SetZoom(z float64) float64 {
	z = math.Round(z*100) / 100
	v.zoom = math.Min(v.opts.ZoomMax, math.Max(v.opts.ZoomMin, z))
	return v.zoom
}

func (v *Viewer) SetLayout(l Layout) error {
	switch l {
	case LayoutSplit, LayoutDocument, LayoutData:
		v.layout = l
		return nil
	default:
		return ErrInvalidLayout
	}
}

// ToggleDocument flips between the split view and the document-only view.
func (v *Viewer) ToggleDocument() Layout {
	if v.layout == LayoutDocument {
		v.layout = LayoutSplit
	} else {
		v.layout = LayoutDocument
	}
	return v.layout
}

func (v *Viewer) State() State {
	return State{
		Zoom:        v.zoom,
		ZoomPercent: int(math.Round(v.zoom * 100)),
		Layout:      v.layout,
		Load:        v.loader.State(),
	}
}

// Close stops any in-flight load.
func (v *Viewer) Close() {
	v.loader.Stop()
}
