package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-extract/internal/async"
)

type captureQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *captureQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *captureQueue) Shutdown(context.Context) {}

func TestFeedQueue(t *testing.T) {
	events := make(chan string, 2)
	errs := make(chan error, 1)
	q := &captureQueue{}

	events <- "/in/a.pdf"
	events <- "/in/b.xlsx"
	errs <- assert.AnError
	close(errs)
	close(events)

	done := make(chan struct{})
	go func() {
		feedQueue(context.Background(), events, errs, q, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("feedQueue did not return after events closed")
	}
	require.Len(t, q.jobs, 2)
	assert.Equal(t, "/in/a.pdf", q.jobs[0].Path)
	assert.NotEmpty(t, q.jobs[0].TraceID)
	assert.NotEqual(t, q.jobs[0].TraceID, q.jobs[1].TraceID)
}
