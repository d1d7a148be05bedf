package protocol

import "github.com/mohitrana7/Stock-Predictor/pkg/models"

const (
	EventSelectStock = "selectStock"
	EventStockUpdate = "stockUpdate"
	EventError       = "error"
)

// WSRequest is a client -> server frame. The only request the core handles
// is selectStock, carrying the symbol the client wants to watch.
type WSRequest struct {
	Event  string `json:"event"`
	Symbol string `json:"symbol"`
}

// WSResponse is a server -> client frame.
type WSResponse struct {
	Event   string        `json:"event"`
	Data    *models.Quote `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
}
