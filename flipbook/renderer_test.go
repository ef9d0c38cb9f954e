package flipbook

import (
	"context"
	"errors"
	"image"
	"testing"
)

// fakeDocument renders trivial images and can be told to fail on specific
// pages.
type fakeDocument struct {
	pages     int
	failPages map[int]error
	closed    bool
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) RenderPage(ctx context.Context, pageNum int, _ float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := d.failPages[pageNum]; ok {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakeOpener struct {
	docs    map[string]*fakeDocument
	openErr error
}

func (o *fakeOpener) Open(_ context.Context, src string) (Document, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	doc, ok := o.docs[src]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func kinds(pages []PageImage) []PageKind {
	out := make([]PageKind, len(pages))
	for i, p := range pages {
		out[i] = p.Kind
	}
	return out
}

func TestRenderProducesAllPagesInOrder(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: 5}}}
	r := NewRenderer(opener, 3)

	result, err := r.Render(context.Background(), "a.pdf", RenderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PageCount != 5 {
		t.Errorf("PageCount = %d, want 5", result.PageCount)
	}
	if len(result.Pages) != 5 {
		t.Fatalf("len(Pages) = %d, want 5", len(result.Pages))
	}
	for i, p := range result.Pages {
		if p.Index != i {
			t.Errorf("page at position %d has index %d", i, p.Index)
		}
		if p.Kind != PageReal {
			t.Errorf("page %d kind = %s, want real", i, p.Kind)
		}
		if len(p.Data) == 0 {
			t.Errorf("page %d has no image data", i)
		}
	}
}

func TestRenderAppendsBlankForOddBookMode(t *testing.T) {
	cases := []struct {
		name      string
		pages     int
		opts      RenderOptions
		wantTotal int
		wantBlank bool
	}{
		{"odd book desktop", 5, RenderOptions{BookMode: true}, 6, true},
		{"even book desktop", 4, RenderOptions{BookMode: true}, 4, false},
		{"odd book mobile", 5, RenderOptions{BookMode: true, Mobile: true}, 5, false},
		{"odd scroll mode", 5, RenderOptions{}, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: tc.pages}}}
			r := NewRenderer(opener, 2)
			result, err := r.Render(context.Background(), "a.pdf", tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Pages) != tc.wantTotal {
				t.Fatalf("len(Pages) = %d, want %d", len(result.Pages), tc.wantTotal)
			}
			if result.PageCount != tc.pages {
				t.Errorf("PageCount = %d, want real count %d", result.PageCount, tc.pages)
			}
			last := result.Pages[len(result.Pages)-1]
			if tc.wantBlank && last.Kind != PageBlank {
				t.Errorf("expected trailing blank sentinel, got %s", last.Kind)
			}
			if !tc.wantBlank && last.Kind == PageBlank {
				t.Error("unexpected trailing blank sentinel")
			}
		})
	}
}

func TestRenderContainsPerPageFailures(t *testing.T) {
	doc := &fakeDocument{pages: 4, failPages: map[int]error{3: errors.New("corrupt xobject")}}
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": doc}}
	r := NewRenderer(opener, 2)

	result, err := r.Render(context.Background(), "a.pdf", RenderOptions{})
	if err != nil {
		t.Fatalf("a single bad page must not fail the document: %v", err)
	}

	want := []PageKind{PageReal, PageReal, PageError, PageReal}
	got := kinds(result.Pages)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d kind = %s, want %s", i, got[i], want[i])
		}
	}
	if result.Pages[2].Err == "" {
		t.Error("error sentinel should carry the failure reason")
	}
	if len(result.Pages[2].Data) != 0 {
		t.Error("error sentinel must not carry image data")
	}
}

func TestRenderIdempotentAcrossReloads(t *testing.T) {
	doc := &fakeDocument{pages: 3, failPages: map[int]error{2: errors.New("bad font")}}
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": doc}}
	r := NewRenderer(opener, 2)
	opts := RenderOptions{BookMode: true}

	first, err := r.Render(context.Background(), "a.pdf", opts)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	doc.closed = false
	second, err := r.Render(context.Background(), "a.pdf", opts)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	if len(first.Pages) != len(second.Pages) {
		t.Fatalf("page counts differ across renders: %d vs %d", len(first.Pages), len(second.Pages))
	}
	for i := range first.Pages {
		if first.Pages[i].Kind != second.Pages[i].Kind {
			t.Errorf("page %d kind differs across renders: %s vs %s", i, first.Pages[i].Kind, second.Pages[i].Kind)
		}
	}
}

func TestRenderStructuralFailures(t *testing.T) {
	cases := []struct {
		name    string
		opener  *fakeOpener
		wantErr error
	}{
		{"password protected", &fakeOpener{openErr: ErrPasswordProtected}, ErrPasswordProtected},
		{"unreachable", &fakeOpener{docs: map[string]*fakeDocument{}}, ErrDocumentNotFound},
		{"zero pages", &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: 0}}}, ErrNoPages},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRenderer(tc.opener, 2)
			result, err := r.Render(context.Background(), "a.pdf", RenderOptions{})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if result != nil {
				t.Error("no pages should be produced on structural failure")
			}
		})
	}
}

func TestRenderPageLimitBlanksRemainder(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: 6}}}
	r := NewRenderer(opener, 2)

	result, err := r.Render(context.Background(), "a.pdf", RenderOptions{PageLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PageKind{PageReal, PageReal, PageReal, PageReal, PageBlank, PageBlank}
	got := kinds(result.Pages)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d kind = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: 10}}}
	r := NewRenderer(opener, 2)
	if _, err := r.Render(ctx, "a.pdf", RenderOptions{}); err == nil {
		t.Fatal("render with a cancelled context should fail")
	}
}

func TestRenderClosesDocument(t *testing.T) {
	doc := &fakeDocument{pages: 2}
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": doc}}
	r := NewRenderer(opener, 1)
	if _, err := r.Render(context.Background(), "a.pdf", RenderOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.closed {
		t.Error("document should be closed after rendering")
	}
}

// Large document rendered with high concurrency must still come out in
// source order.
func TestRenderOrderingUnderConcurrency(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{"big.pdf": {pages: 64}}}
	r := NewRenderer(opener, 8)
	result, err := r.Render(context.Background(), "big.pdf", RenderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range result.Pages {
		if p.Index != i {
			t.Fatalf("page at position %d has index %d", i, p.Index)
		}
	}
}

func TestResampleForZoom(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{"a.pdf": {pages: 1}}}
	r := NewRenderer(opener, 1)
	result, err := r.Render(context.Background(), "a.pdf", RenderOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := result.Pages[0]
	scaled, err := ResampleForZoom(page, 2.0)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if scaled.Kind != PageReal || len(scaled.Data) == 0 {
		t.Error("scaled page should remain a real page with data")
	}

	if _, err := ResampleForZoom(page, 3.0); err == nil {
		t.Error("zoom outside bounds should be rejected")
	}

	blank := PageImage{Index: 1, Kind: PageBlank}
	out, err := ResampleForZoom(blank, 1.5)
	if err != nil || out.Kind != PageBlank {
		t.Errorf("sentinel pages must pass through unchanged, got %v %v", out.Kind, err)
	}
}
