package flipbook

import (
	"context"
	"log"
	"sync"
)

// RenderJob asks for one e-poster PDF to be pre-rendered into page images.
type RenderJob struct {
	EPosterID string
	Source    string
	Opts      RenderOptions
}

// ResultSink receives completed pre-renders (typically storing the page
// images in the object store and marking the e-poster rendered).
type ResultSink interface {
	StoreRenderedPages(ctx context.Context, job RenderJob, result *RenderResult) error
}

// Queue is a fixed pool of render workers fed by a buffered channel.
// Enqueue never blocks; a full queue drops the job and the next scheduler
// tick re-enqueues it.
type Queue struct {
	jobs     chan RenderJob
	renderer *Renderer
	sink     ResultSink
	workers  int
	wg       sync.WaitGroup
}

func NewQueue(renderer *Renderer, sink ResultSink, workers, buffer int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = workers * 2
	}
	return &Queue{
		jobs:     make(chan RenderJob, buffer),
		renderer: renderer,
		sink:     sink,
		workers:  workers,
	}
}

// Start launches the worker pool. Workers drain until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 1; i <= q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Wait blocks until all workers have exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Enqueue submits a job without blocking and reports whether it was accepted.
func (q *Queue) Enqueue(job RenderJob) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		log.Printf("WARN (RenderQueue): Queue full, dropping job for e-poster %s", job.EPosterID)
		return false
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	log.Printf("INFO (RenderQueue): Worker %d started", id)
	for {
		select {
		case <-ctx.Done():
			log.Printf("INFO (RenderQueue): Worker %d stopping", id)
			return
		case job := <-q.jobs:
			q.process(ctx, id, job)
		}
	}
}

// process renders one job. Failures are logged and the job is abandoned;
// the scheduler tick will retry e-posters that never got marked rendered.
func (q *Queue) process(ctx context.Context, id int, job RenderJob) {
	result, err := q.renderer.Render(ctx, job.Source, job.Opts)
	if err != nil {
		log.Printf("ERROR (RenderQueue): Worker %d failed to render e-poster %s (%s): %v", id, job.EPosterID, job.Source, err)
		return
	}
	if err := q.sink.StoreRenderedPages(ctx, job, result); err != nil {
		log.Printf("ERROR (RenderQueue): Worker %d failed to store pages for e-poster %s: %v", id, job.EPosterID, err)
		return
	}
	log.Printf("INFO (RenderQueue): Worker %d pre-rendered e-poster %s (%d pages)", id, job.EPosterID, result.PageCount)
}
