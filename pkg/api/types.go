package api

import "github.com/shopspring/decimal"

// API response types for REST endpoints and WebSocket messages

// ==============================
// REST Response Types
// ==============================

// PriceLevel is a [price, size] pair. Resting-order life is internal
// replay state and is never serialized.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
}

// QueryResponse mirrors the legacy /query payload: the latest bid and
// ask ledgers as two separate arrays.
type QueryResponse struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// BookSnapshot represents the latest replayed book state for an
// instrument.
type BookSnapshot struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"` // Sorted high to low
	Asks      []PriceLevel `json:"asks"` // Sorted low to high
	Timestamp int64        `json:"timestamp"` // Tape time, Unix milliseconds
}

// InstrumentList enumerates the instruments being replayed.
type InstrumentList struct {
	Instruments []string `json:"instruments"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by client to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["book:DOGE", "book:BTC"]
}

// BookUpdate is broadcast on every paced snapshot
type BookUpdate struct {
	Type      string       `json:"type"` // "book"
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp int64        `json:"timestamp"`
}
