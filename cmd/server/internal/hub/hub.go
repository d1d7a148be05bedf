package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/protocol"
	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

// ClientInterface is what the hub needs from a connected client. The real
// transport adapter lives in the gateway package; tests substitute a mock.
type ClientInterface interface {
	ID() string
	SendJSON(v interface{})
	Close()
}

// QuoteFetcher is satisfied by quote.Fetcher.
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (*models.Quote, error)
}

// Hub owns the client -> symbol subscription registry and fans quotes out to
// connected clients. Each client watches exactly one symbol at a time;
// selecting a new one overwrites the old.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[ClientInterface]string

	fetcher       QuoteFetcher
	defaultSymbol string
	logger        *zap.Logger
}

func NewHub(fetcher QuoteFetcher, defaultSymbol string, logger *zap.Logger) *Hub {
	return &Hub{
		subscriptions: make(map[ClientInterface]string),
		fetcher:       fetcher,
		defaultSymbol: defaultSymbol,
		logger:        logger,
	}
}

// Register adds a newly connected client, watching the default symbol until
// it selects one.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	h.subscriptions[client] = h.defaultSymbol
	h.mu.Unlock()
	h.logger.Info("Client connected", zap.String("client", client.ID()))
}

// Select records the client's new symbol and kicks off one immediate fetch
// so the client isn't left waiting for the next scheduler tick. The registry
// update is synchronous; only the fetch runs in the background, so one slow
// upstream call never serializes other clients' requests.
func (h *Hub) Select(ctx context.Context, client ClientInterface, symbol string) {
	h.mu.Lock()
	if _, ok := h.subscriptions[client]; !ok {
		// Client already gone; nothing to update, nothing to send.
		h.mu.Unlock()
		return
	}
	h.subscriptions[client] = symbol
	h.mu.Unlock()

	h.logger.Info("Client selected stock", zap.String("client", client.ID()), zap.String("symbol", symbol))

	go func() {
		q, err := h.fetcher.Fetch(ctx, symbol)
		if err != nil {
			// Already logged by the fetcher. The client keeps its
			// placeholder state until the next tick fills it in.
			return
		}
		client.SendJSON(protocol.WSResponse{Event: protocol.EventStockUpdate, Data: q})
	}()
}

// Subscription reports the symbol the client currently watches.
func (h *Hub) Subscription(client ClientInterface) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if symbol, ok := h.subscriptions[client]; ok {
		return symbol
	}
	return h.defaultSymbol
}

// Unregister drops the client and closes it. A reconnecting client comes
// back as a new identity with fresh default state.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	_, ok := h.subscriptions[client]
	delete(h.subscriptions, client)
	h.mu.Unlock()

	if ok {
		client.Close()
		h.logger.Info("Client disconnected", zap.String("client", client.ID()))
	}
}

// Broadcast sends a quote to every connected client regardless of its
// subscription; filtering by watched symbol happens client-side in the UI.
func (h *Hub) Broadcast(q *models.Quote) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscriptions {
		client.SendJSON(protocol.WSResponse{Event: protocol.EventStockUpdate, Data: q})
	}
}
