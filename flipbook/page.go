// Package flipbook renders PDF documents into ordered page images for the
// page-turning viewer: a bounded-concurrency rasterization pipeline, viewer
// navigation state, and a pre-render job queue for archived e-posters.
package flipbook

// PageKind tags one entry of the rendered page sequence. Sentinels are
// distinct variants rather than magic values, so a consumer can never
// mistake a blank or failed page for real image data.
type PageKind string

const (
	// PageReal carries rendered image data.
	PageReal PageKind = "real"
	// PageBlank balances a two-page spread or stands in for content past
	// the preview limit.
	PageBlank PageKind = "blank"
	// PageError marks a page whose individual render failed; the rest of
	// the document is unaffected.
	PageError PageKind = "error"
)

// PageImage is one entry of a rendered document, 0-indexed in source order.
// Data is a PNG encoding and is only set for PageReal entries.
type PageImage struct {
	Index int      `json:"index"`
	Kind  PageKind `json:"kind"`
	Data  []byte   `json:"-"`
	Err   string   `json:"error,omitempty"`
}
