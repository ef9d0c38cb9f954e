package flipbook

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	stored []RenderJob
	done   chan struct{}
}

func (s *captureSink) StoreRenderedPages(_ context.Context, job RenderJob, _ *RenderResult) error {
	s.mu.Lock()
	s.stored = append(s.stored, job)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestQueueProcessesJobs(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{"ep.pdf": {pages: 2}}}
	sink := &captureSink{done: make(chan struct{}, 1)}
	q := NewQueue(NewRenderer(opener, 1), sink, 1, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	if !q.Enqueue(RenderJob{EPosterID: "e1", Source: "ep.pdf"}) {
		t.Fatal("enqueue into an empty queue should succeed")
	}

	select {
	case <-sink.done:
	case <-time.After(5 * time.Second):
		t.Fatal("job was never processed")
	}

	cancel()
	q.Wait()

	if len(sink.stored) != 1 || sink.stored[0].EPosterID != "e1" {
		t.Fatalf("sink received %v", sink.stored)
	}
}

func TestQueueEnqueueNonBlocking(t *testing.T) {
	opener := &fakeOpener{docs: map[string]*fakeDocument{}}
	q := NewQueue(NewRenderer(opener, 1), &captureSink{done: make(chan struct{}, 8)}, 1, 1)
	// Workers not started: the buffer fills and the queue must refuse
	// rather than block.
	if !q.Enqueue(RenderJob{EPosterID: "e1"}) {
		t.Fatal("first enqueue should be accepted")
	}
	if q.Enqueue(RenderJob{EPosterID: "e2"}) {
		t.Fatal("enqueue into a full queue should be refused")
	}
}
