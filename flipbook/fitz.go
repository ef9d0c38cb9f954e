package flipbook

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"

	fitz "github.com/gen2brain/go-fitz"
)

// renderDPI is the rasterization density at scale 1.0. MuPDF's default of
// 72 is too coarse for the flipbook zoom range.
const renderDPI = 144

// Fetcher reads the raw bytes of a document source. The FitzOpener uses it
// so sources can live in the object store or behind a plain URL.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
	Exists(ctx context.Context, src string) (bool, error)
}

// FitzOpener opens documents with MuPDF via go-fitz.
type FitzOpener struct {
	fetcher Fetcher
}

func NewFitzOpener(fetcher Fetcher) *FitzOpener {
	return &FitzOpener{fetcher: fetcher}
}

// Open fetches the source and parses it. An unreachable source maps to
// ErrDocumentNotFound and an encrypted document to ErrPasswordProtected,
// so callers can present the right terminal state.
func (o *FitzOpener) Open(ctx context.Context, src string) (Document, error) {
	exists, err := o.fetcher.Exists(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("existence check for %s failed: %w", src, err)
	}
	if !exists {
		return nil, ErrDocumentNotFound
	}

	raw, err := o.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}

	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, ErrPasswordProtected
		}
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument serializes page renders: a MuPDF context is not safe for
// concurrent use, so the pipeline's parallelism stops at this lock.
type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(ctx context.Context, pageNum int, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	// go-fitz pages are 0-based.
	return d.doc.ImageDPI(pageNum-1, renderDPI*scale)
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

// HTTPFetcher fetches document sources over plain HTTP(S); non-URL sources
// are rejected. Object-store sources are served by the storage layer's
// fetcher instead.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if !isHTTPSource(src) {
		return nil, fmt.Errorf("not an HTTP source: %s", src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, src)
	}
	return io.ReadAll(resp.Body)
}

func (f *HTTPFetcher) Exists(ctx context.Context, src string) (bool, error) {
	if !isHTTPSource(src) {
		return false, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return false, err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func isHTTPSource(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
