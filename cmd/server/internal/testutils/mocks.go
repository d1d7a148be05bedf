package testutils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/protocol"
	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

// MockClient simulates a connected websocket client
type MockClient struct {
	IDVal    string
	Messages []protocol.WSResponse
	Closed   bool
	Mu       sync.Mutex
}

func NewMockClient(id string) *MockClient {
	return &MockClient{IDVal: id, Messages: make([]protocol.WSResponse, 0)}
}

func (m *MockClient) ID() string { return m.IDVal }

func (m *MockClient) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockClient) SendJSON(v interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if resp, ok := v.(protocol.WSResponse); ok {
		m.Messages = append(m.Messages, resp)
	}
}

// Quotes returns the payloads of all stockUpdate messages received so far.
func (m *MockClient) Quotes() []*models.Quote {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var quotes []*models.Quote
	for _, msg := range m.Messages {
		if msg.Event == protocol.EventStockUpdate && msg.Data != nil {
			quotes = append(quotes, msg.Data)
		}
	}
	return quotes
}

func (m *MockClient) MessageCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.Messages)
}

// MockFetcher returns canned quotes per symbol and records every call.
// When Block is non-nil, Fetch waits until it is closed, which lets tests
// observe state while a fetch is still "in flight".
type MockFetcher struct {
	Quotes map[string]*models.Quote
	Block  chan struct{}

	Mu    sync.Mutex
	calls []string
}

func NewMockFetcher(quotes map[string]*models.Quote) *MockFetcher {
	return &MockFetcher{Quotes: quotes}
}

func (m *MockFetcher) Fetch(_ context.Context, symbol string) (*models.Quote, error) {
	if m.Block != nil {
		<-m.Block
	}
	m.Mu.Lock()
	m.calls = append(m.calls, symbol)
	q := m.Quotes[symbol]
	m.Mu.Unlock()

	if q == nil {
		return nil, errors.New("no data")
	}
	return q, nil
}

func (m *MockFetcher) Calls() []string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockBroadcaster records broadcast quotes.
type MockBroadcaster struct {
	Mu     sync.Mutex
	Quotes []*models.Quote
}

func (m *MockBroadcaster) Broadcast(q *models.Quote) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Quotes = append(m.Quotes, q)
}

func (m *MockBroadcaster) Symbols() []string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var out []string
	for _, q := range m.Quotes {
		out = append(out, q.Symbol)
	}
	return out
}

// MockSink records published quotes.
type MockSink struct {
	Mu        sync.Mutex
	Published []*models.Quote
	Err       error
}

func (m *MockSink) Publish(_ context.Context, q *models.Quote) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, q)
	return nil
}

// MockKafkaWriter records messages handed to the sink's writer.
type MockKafkaWriter struct {
	Mu       sync.Mutex
	Messages []kafka.Message
	Err      error
	Closed   bool
}

func (m *MockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
	return nil
}

// Eventually polls cond until it returns true or the timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition never met: %s", msg)
}

func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("Assertion failed: %s", msg)
	}
}
