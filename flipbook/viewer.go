package flipbook

import (
	"fmt"
	"math"
)

const (
	minZoom  = 0.5
	maxZoom  = 2.0
	zoomStep = 0.1
)

// Viewer tracks navigation state over one rendered document: current page,
// zoom level, and the preview ceiling for the limited variant. Desktop
// viewers advance by two-page spreads, mobile by single pages.
type Viewer struct {
	current   int
	total     int
	mobile    bool
	zoom      float64
	pageLimit int
}

func NewViewer(totalPages int, mobile bool) *Viewer {
	if totalPages < 1 {
		totalPages = 1
	}
	return &Viewer{total: totalPages, mobile: mobile, zoom: 1.0}
}

// NewLimitedViewer creates a viewer with a preview page ceiling.
func NewLimitedViewer(totalPages int, mobile bool, pageLimit int) *Viewer {
	v := NewViewer(totalPages, mobile)
	v.pageLimit = pageLimit
	return v
}

func (v *Viewer) Current() int  { return v.current }
func (v *Viewer) Total() int    { return v.total }
func (v *Viewer) Zoom() float64 { return v.zoom }

func (v *Viewer) step() int {
	if v.mobile {
		return 1
	}
	return 2
}

// Next advances by one page (mobile) or one spread (desktop), clamped to
// the last page. At the bound it is a no-op.
func (v *Viewer) Next() {
	v.GoTo(v.current + v.step())
}

// Previous retreats by one page or spread, clamped to page 0.
func (v *Viewer) Previous() {
	v.GoTo(v.current - v.step())
}

// GoTo jumps to the given 0-indexed page, clamped to [0, total-1].
func (v *Viewer) GoTo(page int) {
	if page < 0 {
		page = 0
	}
	if page > v.total-1 {
		page = v.total - 1
	}
	v.current = page
}

// ZoomIn raises the zoom by one step, never past 2.0x.
func (v *Viewer) ZoomIn() {
	v.zoom = clampZoom(v.zoom + zoomStep)
}

// ZoomOut lowers the zoom by one step, never below 0.5x.
func (v *Viewer) ZoomOut() {
	v.zoom = clampZoom(v.zoom - zoomStep)
}

func clampZoom(z float64) float64 {
	// Keep one decimal so repeated steps don't drift.
	z = math.Round(z*10) / 10
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// PageLabel reports the "page X of Y" indicator: the visible spread on
// desktop, a single page on mobile.
func (v *Viewer) PageLabel() string {
	if v.mobile {
		return fmt.Sprintf("%d of %d", v.current+1, v.total)
	}
	last := v.current + 2
	if last > v.total {
		last = v.total
	}
	if last == v.current+1 {
		return fmt.Sprintf("%d of %d", v.current+1, v.total)
	}
	return fmt.Sprintf("%d-%d of %d", v.current+1, last, v.total)
}

// Restricted reports whether the limited-variant overlay must be shown:
// once the current page reaches the ceiling minus one, and never before.
func (v *Viewer) Restricted() bool {
	return v.pageLimit > 0 && v.current >= v.pageLimit-1
}
