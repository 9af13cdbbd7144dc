package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// PositionReader values LP holdings.
type PositionReader interface {
	GetPosition(ctx context.Context, pair, owner string) (*entities.Position, error)
	GetPositions(ctx context.Context, owner string) ([]entities.Position, error)
}

type PositionHandler struct {
	positions PositionReader
}

func NewPositionHandler(positions PositionReader) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// PositionsResponse lists an owner's non-zero positions.
type PositionsResponse struct {
	Owner     string              `json:"owner"`
	Positions []entities.Position `json:"positions"`
}

// GetPositions handles GET /api/v1/positions/{owner}
func (h *PositionHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	positions, err := h.positions.GetPositions(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if positions == nil {
		positions = []entities.Position{}
	}
	writeJSON(w, http.StatusOK, PositionsResponse{Owner: owner, Positions: positions})
}

// GetPosition handles GET /api/v1/positions/{owner}/{pair}
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position, err := h.positions.GetPosition(r.Context(), chi.URLParam(r, "pair"), chi.URLParam(r, "owner"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, position)
}
