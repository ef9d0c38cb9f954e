package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/opencongress/congresso/datastore"
	"github.com/opencongress/congresso/flipbook"
)

// Scheduler refreshes congress lifecycle states from their dates and
// enqueues pre-render jobs for e-posters whose page images are missing.
// Each tick is idempotent: state writes only happen on change, and an
// e-poster stays in the unrendered set until a render is stored.
type Scheduler struct {
	congressRepo *datastore.CongressRepository
	eposterRepo  *datastore.EPosterRepository
	queue        *flipbook.Queue
}

// New creates a new Scheduler with all required dependencies.
func New(congressRepo *datastore.CongressRepository, eposterRepo *datastore.EPosterRepository, queue *flipbook.Queue) *Scheduler {
	return &Scheduler{
		congressRepo: congressRepo,
		eposterRepo:  eposterRepo,
		queue:        queue,
	}
}

// HandleTick is an HTTP handler that triggers a scheduler tick.
// Used by Cloud Scheduler or manual curl requests.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	log.Println("INFO (Scheduler): Tick triggered via HTTP")

	refreshed, enqueued, err := s.Tick(r.Context())
	if err != nil {
		log.Printf("ERROR (Scheduler): Tick failed: %v", err)
		http.Error(w, "scheduler tick failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: refreshed %d congress states, enqueued %d renders", refreshed, enqueued)
}

// Tick runs a single scheduler cycle. It returns the number of congress
// state changes written and the number of render jobs enqueued.
func (s *Scheduler) Tick(ctx context.Context) (int, int, error) {
	refreshed, err := s.refreshCongressStates(ctx)
	if err != nil {
		return 0, 0, err
	}

	enqueued, err := s.enqueuePendingRenders(ctx)
	if err != nil {
		return refreshed, 0, err
	}

	return refreshed, enqueued, nil
}

// refreshCongressStates re-derives each congress's state from its date
// range and persists any that have drifted.
func (s *Scheduler) refreshCongressStates(ctx context.Context) (int, error) {
	congresses, err := s.congressRepo.GetAllCongresses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch congresses: %w", err)
	}

	now := time.Now().UTC()
	refreshed := 0
	for i := range congresses {
		congress := &congresses[i]
		derived := congress.StateAt(now)
		if derived == congress.State {
			continue
		}
		if err := s.congressRepo.UpdateCongressState(ctx, congress.ID, derived); err != nil {
			log.Printf("ERROR (Scheduler): Failed to update state of congress %s to %s: %v", congress.ID, derived, err)
			continue
		}
		log.Printf("INFO (Scheduler): Congress %s moved %s -> %s", congress.ID, congress.State, derived)
		refreshed++
	}

	return refreshed, nil
}

// enqueuePendingRenders submits a pre-render job for every e-poster that
// has no stored page images yet. A full queue is fine: dropped jobs are
// picked up again on the next tick.
func (s *Scheduler) enqueuePendingRenders(ctx context.Context) (int, error) {
	eposters, err := s.eposterRepo.GetUnrenderedEPosters(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unrendered e-posters: %w", err)
	}

	enqueued := 0
	for i := range eposters {
		eposter := &eposters[i]
		accepted := s.queue.Enqueue(flipbook.RenderJob{
			EPosterID: eposter.ID,
			Source:    eposter.PDFPath,
			Opts:      flipbook.RenderOptions{},
		})
		if accepted {
			enqueued++
		}
	}

	if enqueued > 0 {
		log.Printf("INFO (Scheduler): Enqueued %d e-poster render jobs", enqueued)
	}
	return enqueued, nil
}
