package flipbook

import (
	"context"
	"sync"
)

// Session holds the per-viewer document state and guards against the
// stale-load race: every load is tagged with a generation, and a finished
// render whose generation no longer matches the active one is discarded
// instead of overwriting state that belongs to a newer document.
type Session struct {
	renderer *Renderer

	mu         sync.Mutex
	generation uint64
	activeSrc  string
	result     *RenderResult
	viewer     *Viewer
	loadErr    error
	ready      bool
}

func NewSession(renderer *Renderer) *Session {
	return &Session{renderer: renderer}
}

// Load renders the document at src and installs the result. Switching to
// another source while a load is in flight invalidates the older load.
func (s *Session) Load(ctx context.Context, src string, opts RenderOptions) error {
	gen := s.begin(src)
	result, err := s.renderer.Render(ctx, src, opts)
	return s.finish(gen, opts, result, err)
}

// begin resets all per-document state and returns the generation tag for
// this load.
func (s *Session) begin(src string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.activeSrc = src
	s.result = nil
	s.viewer = nil
	s.loadErr = nil
	s.ready = false
	return s.generation
}

// finish installs a completed load unless a newer load has started since.
// Stale results are dropped silently, errors included.
func (s *Session) finish(gen uint64, opts RenderOptions, result *RenderResult, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	if err != nil {
		s.loadErr = err
		return err
	}
	result.Generation = gen
	s.result = result
	if opts.PageLimit > 0 {
		s.viewer = NewLimitedViewer(len(result.Pages), opts.Mobile, opts.PageLimit)
	} else {
		s.viewer = NewViewer(len(result.Pages), opts.Mobile)
	}
	s.ready = true
	return nil
}

// Ready reports whether the active document has finished rendering.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Err returns the terminal error of the active load, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// ActiveSource returns the source of the most recent load.
func (s *Session) ActiveSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSrc
}

// Result returns the installed render result, or nil while loading.
func (s *Session) Result() *RenderResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Viewer returns the navigation state for the active document, or nil
// while loading.
func (s *Session) Viewer() *Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}
