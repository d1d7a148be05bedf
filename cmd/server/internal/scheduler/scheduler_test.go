package scheduler_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/scheduler"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/testutils"
	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

func quotes(symbols ...string) map[string]*models.Quote {
	out := make(map[string]*models.Quote)
	for _, s := range symbols {
		out[s] = &models.Quote{Symbol: s, Price: 100}
	}
	return out
}

func TestTick_BatchBound(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F", "G"}
	fetcher := testutils.NewMockFetcher(quotes(roster...))
	b := &testutils.MockBroadcaster{}

	s := scheduler.New(roster, 3, time.Minute, fetcher, b, nil, zap.NewNop())
	s.Tick(context.Background())

	if got := len(fetcher.Calls()); got != 3 {
		t.Errorf("Tick must fetch at most batchSize symbols, got %d", got)
	}
}

func TestTick_RotatingWindow(t *testing.T) {
	// Rotation policy: roster [A B C], batch 2 -> {A B}, {C A}, {B C}.
	roster := []string{"A", "B", "C"}
	fetcher := testutils.NewMockFetcher(quotes(roster...))
	b := &testutils.MockBroadcaster{}

	s := scheduler.New(roster, 2, time.Minute, fetcher, b, nil, zap.NewNop())
	s.Tick(context.Background())
	s.Tick(context.Background())
	s.Tick(context.Background())

	want := []string{"A", "B", "C", "A", "B", "C"}
	if got := fetcher.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rotation mismatch: got %v, want %v", got, want)
	}
}

func TestTick_AbsentSymbolDoesNotAbortBatch(t *testing.T) {
	// B has no quote, so its fetch fails; A and C still go out.
	fetcher := testutils.NewMockFetcher(quotes("A", "C"))
	b := &testutils.MockBroadcaster{}

	s := scheduler.New([]string{"A", "B", "C"}, 3, time.Minute, fetcher, b, nil, zap.NewNop())
	s.Tick(context.Background())

	if got := b.Symbols(); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Expected broadcasts for A and C only, got %v", got)
	}
}

func TestTick_EmptyRoster(t *testing.T) {
	fetcher := testutils.NewMockFetcher(nil)
	b := &testutils.MockBroadcaster{}

	s := scheduler.New(nil, 5, time.Minute, fetcher, b, nil, zap.NewNop())
	s.Tick(context.Background())

	if len(fetcher.Calls()) != 0 {
		t.Error("Empty roster should fetch nothing")
	}
}

func TestTick_BatchLargerThanRoster(t *testing.T) {
	roster := []string{"A", "B"}
	fetcher := testutils.NewMockFetcher(quotes(roster...))
	b := &testutils.MockBroadcaster{}

	s := scheduler.New(roster, 5, time.Minute, fetcher, b, nil, zap.NewNop())
	s.Tick(context.Background())

	if got := fetcher.Calls(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Expected one pass over the whole roster, got %v", got)
	}
}

func TestTick_PublishesToSink(t *testing.T) {
	fetcher := testutils.NewMockFetcher(quotes("A", "B"))
	b := &testutils.MockBroadcaster{}
	sink := &testutils.MockSink{}

	s := scheduler.New([]string{"A", "B"}, 2, time.Minute, fetcher, b, sink, zap.NewNop())
	s.Tick(context.Background())

	if len(sink.Published) != 2 {
		t.Errorf("Expected 2 sink publishes, got %d", len(sink.Published))
	}
}

func TestTick_SinkErrorDoesNotAbortBatch(t *testing.T) {
	fetcher := testutils.NewMockFetcher(quotes("A", "B"))
	b := &testutils.MockBroadcaster{}
	sink := &testutils.MockSink{Err: errors.New("broker down")}

	s := scheduler.New([]string{"A", "B"}, 2, time.Minute, fetcher, b, sink, zap.NewNop())
	s.Tick(context.Background())

	if got := b.Symbols(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Broadcasts must survive sink errors, got %v", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	fetcher := testutils.NewMockFetcher(nil)
	b := &testutils.MockBroadcaster{}

	s := scheduler.New([]string{"A"}, 1, 5*time.Millisecond, fetcher, b, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
