package repository

import "context"

// PriceStore tracks the last observed price per symbol. The quote fetcher
// reads the previous value to derive percent change, then overwrites it.
// The read and the write are not atomic across concurrent fetches of the
// same symbol; that race only skews a display delta and is tolerated.
type PriceStore interface {
	LastPrice(ctx context.Context, symbol string) (float64, bool, error)
	SetLastPrice(ctx context.Context, symbol string, price float64) error
	Close() error
}
