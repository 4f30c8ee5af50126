package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/samber/lo"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
	"github.com/hyunwoo-p/marketreplay/pkg/replay"
)

// Server exposes replayed order books over REST and WebSocket.
type Server struct {
	registry *replay.Registry
	router   *mux.Router
	hub      *Hub
}

// NewServer creates a new API server over the replay registry.
func NewServer(registry *replay.Registry) *Server {
	s := &Server{
		registry: registry,
		router:   mux.NewRouter(),
		hub:      NewHub(),
	}
	s.hub.snapshot = s.channelSnapshot
	s.setupRoutes()
	return s
}

// channelSnapshot resolves a "book:SYMBOL" channel to the latest
// replayed state so fresh subscribers get an immediate update.
func (s *Server) channelSnapshot(channel string) (interface{}, bool) {
	symbol, ok := strings.CutPrefix(channel, "book:")
	if !ok {
		return nil, false
	}

	player, ok := s.registry.Lookup(symbol)
	if !ok {
		return nil, false
	}
	snap := player.Latest()
	if snap == nil {
		return nil, false
	}

	return BookUpdate{
		Type:      "book",
		Symbol:    symbol,
		Bids:      levels(snap.Bids),
		Asks:      levels(snap.Asks),
		Timestamp: snap.Time.UnixMilli(),
	}, true
}

func (s *Server) setupRoutes() {
	// API v1 routes
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/instruments", s.handleListInstruments).Methods("GET")
	api.HandleFunc("/instruments/{symbol}/book", s.handleGetBook).Methods("GET")

	// Legacy query endpoint: /query?stock=DOGE
	s.router.HandleFunc("/query", s.handleQuery).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the CORS-wrapped root handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	// Start WebSocket hub
	go s.hub.Run()

	log.Printf("[api] server starting on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.URL.Query().Get("stock"))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "missing stock parameter", "")
		return
	}

	player, ok := s.registry.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown instrument", symbol)
		return
	}

	snap := player.Latest()
	if snap == nil {
		// Replay has not produced a snapshot yet; an empty book is a
		// valid answer.
		respondJSON(w, QueryResponse{Bids: []PriceLevel{}, Asks: []PriceLevel{}})
		return
	}

	respondJSON(w, QueryResponse{Bids: levels(snap.Bids), Asks: levels(snap.Asks)})
}

func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, InstrumentList{Instruments: s.registry.Symbols()})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := strings.ToUpper(vars["symbol"])

	player, ok := s.registry.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown instrument", symbol)
		return
	}

	response := BookSnapshot{
		Symbol: symbol,
		Bids:   []PriceLevel{},
		Asks:   []PriceLevel{},
	}
	if snap := player.Latest(); snap != nil {
		response.Bids = levels(snap.Bids)
		response.Asks = levels(snap.Asks)
		response.Timestamp = snap.Time.UnixMilli()
	}

	respondJSON(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Broadcast Methods (called from replay players)
// ==============================

// BroadcastBook pushes a snapshot to clients subscribed to the
// instrument's book channel.
func (s *Server) BroadcastBook(symbol string, snap book.Snapshot) {
	update := BookUpdate{
		Type:      "book",
		Symbol:    symbol,
		Bids:      levels(snap.Bids),
		Asks:      levels(snap.Asks),
		Timestamp: snap.Time.UnixMilli(),
	}
	s.hub.BroadcastToChannel("book:"+symbol, update)
}

// ==============================
// Helper Functions
// ==============================

func levels(l book.Ledger) []PriceLevel {
	return lo.Map(l, func(o book.RestingOrder, _ int) PriceLevel {
		return PriceLevel{Price: o.Price, Size: o.Size}
	})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
