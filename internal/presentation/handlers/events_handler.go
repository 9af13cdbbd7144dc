package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/domain/events"
)

// EventIngester decodes transaction metadata into pool events and tracks
// the reserves they report against the pool's pair.
type EventIngester interface {
	Ingest(pool, metaXDR string) (pair string, evs []events.PairEvent, err error)
	Snapshot(pair string) (entities.Reserves, bool)
}

type EventsHandler struct {
	tracker EventIngester
}

func NewEventsHandler(tracker EventIngester) *EventsHandler {
	return &EventsHandler{tracker: tracker}
}

// IngestRequest carries base64 XDR TransactionMeta.
type IngestRequest struct {
	ResultMetaXDR string `json:"resultMetaXdr"`
}

// EventResponse wraps a decoded event with its kind.
type EventResponse struct {
	Kind  events.Kind      `json:"kind"`
	Event events.PairEvent `json:"event"`
}

// IngestResponse lists the events found for the pool and, when a sync has
// been seen, the tracked reserves of its pair.
type IngestResponse struct {
	Pool     string             `json:"pool"`
	Pair     string             `json:"pair"`
	Events   []EventResponse    `json:"events"`
	Reserves *entities.Reserves `json:"reserves,omitempty"`
}

// Ingest handles POST /api/v1/pools/{pool}/events
func (h *EventsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	pool := chi.URLParam(r, "pool")

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.ResultMetaXDR == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "resultMetaXdr is required")
		return
	}

	pair, decoded, err := h.tracker.Ingest(pool, req.ResultMetaXDR)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := IngestResponse{
		Pool:   pool,
		Pair:   pair,
		Events: make([]EventResponse, 0, len(decoded)),
	}
	for _, ev := range decoded {
		resp.Events = append(resp.Events, EventResponse{Kind: ev.Kind(), Event: ev})
	}
	if reserves, ok := h.tracker.Snapshot(pair); ok {
		resp.Reserves = &reserves
	}

	writeJSON(w, http.StatusOK, resp)
}
