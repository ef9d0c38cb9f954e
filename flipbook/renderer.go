package flipbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"

	"golang.org/x/sync/errgroup"
)

// Structural document failures. These abort the whole render; individual
// page failures do not.
var (
	ErrPasswordProtected = errors.New("document is password protected")
	ErrNoPages           = errors.New("document has no pages")
	ErrDocumentNotFound  = errors.New("document not found")
)

// Document is one open PDF. RenderPage rasterizes a 1-based page at the
// given scale. Implementations must be safe for concurrent RenderPage calls.
type Document interface {
	PageCount() int
	RenderPage(ctx context.Context, pageNum int, scale float64) (image.Image, error)
	Close() error
}

// Opener resolves a document source (storage path or URL) into an open
// Document. It returns ErrPasswordProtected for encrypted documents and
// ErrDocumentNotFound for unreachable ones.
type Opener interface {
	Open(ctx context.Context, src string) (Document, error)
}

const (
	defaultRenderScale = 1.0
	defaultConcurrency = 4
)

// RenderOptions control one rasterization pass.
type RenderOptions struct {
	// Scale is the render scale relative to the document's natural size.
	Scale float64
	// BookMode selects two-page spreads; with a non-mobile viewport and an
	// odd page count, one blank page is appended so spreads stay balanced.
	BookMode bool
	// Mobile disables spread balancing.
	Mobile bool
	// PageLimit, when positive, caps the number of real pages rendered;
	// pages past the limit become blank sentinels.
	PageLimit int
}

// RenderResult is one complete rasterization pass over a document.
type RenderResult struct {
	Pages []PageImage `json:"pages"`
	// PageCount is the document's real page count, excluding any appended
	// blank sentinel.
	PageCount  int    `json:"page_count"`
	Generation uint64 `json:"generation"`
}

// Renderer runs the rasterization pipeline. Pages are rendered with bounded
// concurrency but always emitted in source order.
type Renderer struct {
	opener      Opener
	concurrency int
}

func NewRenderer(opener Opener, concurrency int) *Renderer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Renderer{opener: opener, concurrency: concurrency}
}

// Render rasterizes every page of the document at src. A page whose render
// fails becomes an error sentinel and the pipeline continues; structural
// failures (unreachable, encrypted, empty) are terminal. Cancelling the
// context aborts in-flight page renders.
func (r *Renderer) Render(ctx context.Context, src string, opts RenderOptions) (*RenderResult, error) {
	if opts.Scale <= 0 {
		opts.Scale = defaultRenderScale
	}

	doc, err := r.opener.Open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", src, err)
	}
	defer doc.Close()

	total := doc.PageCount()
	if total == 0 {
		return nil, fmt.Errorf("document %s: %w", src, ErrNoPages)
	}

	pages := make([]PageImage, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := 0; i < total; i++ {
		idx := i
		if opts.PageLimit > 0 && idx >= opts.PageLimit {
			pages[idx] = PageImage{Index: idx, Kind: PageBlank}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, renderErr := doc.RenderPage(gctx, idx+1, opts.Scale)
			if renderErr != nil {
				log.Printf("WARN (Renderer): Page %d of %s failed to render: %v", idx+1, src, renderErr)
				pages[idx] = PageImage{Index: idx, Kind: PageError, Err: renderErr.Error()}
				return nil
			}
			encoded, encodeErr := encodePNG(img)
			if encodeErr != nil {
				log.Printf("WARN (Renderer): Page %d of %s failed to encode: %v", idx+1, src, encodeErr)
				pages[idx] = PageImage{Index: idx, Kind: PageError, Err: encodeErr.Error()}
				return nil
			}
			pages[idx] = PageImage{Index: idx, Kind: PageReal, Data: encoded}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render of %s cancelled: %w", src, err)
	}

	if opts.BookMode && !opts.Mobile && len(pages)%2 != 0 {
		pages = append(pages, PageImage{Index: len(pages), Kind: PageBlank})
	}

	return &RenderResult{Pages: pages, PageCount: total}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
