package scheduler

import (
	"context"
	"fmt"

	"github.com/opencongress/congresso/flipbook"
	"github.com/opencongress/congresso/storage"
)

// PreRenderSink stores completed pre-renders: each real page image goes
// into the object store and the e-poster is marked rendered.
type PreRenderSink struct {
	storer  storage.ContentStorer
	eposter EPosterMarker
}

// EPosterMarker is the slice of the datastore the sink needs.
type EPosterMarker interface {
	MarkEPosterRendered(ctx context.Context, eposterID string, pageCount int) error
}

func NewPreRenderSink(storer storage.ContentStorer, eposter EPosterMarker) *PreRenderSink {
	return &PreRenderSink{storer: storer, eposter: eposter}
}

func (s *PreRenderSink) StoreRenderedPages(ctx context.Context, job flipbook.RenderJob, result *flipbook.RenderResult) error {
	for _, page := range result.Pages {
		if page.Kind != flipbook.PageReal {
			continue
		}
		path := flipbook.PagePath(job.EPosterID, page.Index)
		if _, err := s.storer.Store(ctx, path, page.Data); err != nil {
			return fmt.Errorf("failed to store page %d of e-poster %s: %w", page.Index, job.EPosterID, err)
		}
	}

	if err := s.eposter.MarkEPosterRendered(ctx, job.EPosterID, result.PageCount); err != nil {
		return fmt.Errorf("failed to mark e-poster %s rendered: %w", job.EPosterID, err)
	}
	return nil
}
