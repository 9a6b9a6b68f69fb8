package workers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// flakyWorker fails a fixed number of runs before finishing cleanly.
type flakyWorker struct {
	runs     atomic.Int32
	failures int32
	panics   bool
}

func (w *flakyWorker) Run(context.Context) error {
	run := w.runs.Add(1)
	if run <= w.failures {
		if w.panics {
			panic("worker blew up")
		}
		return fmt.Errorf("transient failure %d", run)
	}
	return nil
}

type blockingWorker struct{}

func (blockingWorker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestSupervisor_Restarts_A_Failing_Worker(t *testing.T) {
	req := require.New(t)
	worker := &flakyWorker{failures: 2}
	supervisor := NewSupervisor(testLogger())
	supervisor.Add(worker)

	// When the supervisor runs a worker that fails twice then finishes
	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(context.Background())
	}()

	// Then it restarted until the clean exit and stopped there
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not drain")
	}
	req.Equal(int32(3), worker.runs.Load())
}

func TestSupervisor_Recovers_A_Panicking_Worker(t *testing.T) {
	req := require.New(t)
	worker := &flakyWorker{failures: 1, panics: true}
	supervisor := NewSupervisor(testLogger())
	supervisor.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not survive the panic")
	}
	req.Equal(int32(2), worker.runs.Load())
}

func TestSupervisor_Stop_Cancels_The_Children(t *testing.T) {
	req := require.New(t)
	supervisor := NewSupervisor(testLogger())
	supervisor.Add(blockingWorker{}, blockingWorker{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(context.Background())
	}()

	// Stop only has a cancel func once Run installed it
	req.Eventually(func() bool { return supervisor.Cancel != nil },
		time.Second, 5*time.Millisecond)

	supervisor.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop on Stop()")
	}
}

func TestSupervisor_Parent_Cancellation_Propagates(t *testing.T) {
	supervisor := NewSupervisor(testLogger())
	supervisor.Add(blockingWorker{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(ctx)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop on parent cancellation")
	}
}
