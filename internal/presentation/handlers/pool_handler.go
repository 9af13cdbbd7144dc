package handlers

import (
	"context"
	"net/http"

	"github.com/bimakw/amm-quoter/internal/domain/services"
)

// PoolLister enumerates registered pools.
type PoolLister interface {
	ListPools(ctx context.Context) ([]services.PoolResult, error)
}

type PoolHandler struct {
	pools PoolLister
}

func NewPoolHandler(pools PoolLister) *PoolHandler {
	return &PoolHandler{pools: pools}
}

// PoolResponse is one pool in the listing. Pools that failed to load carry
// Error and no reserves.
type PoolResponse struct {
	Address  string `json:"address"`
	Token0   string `json:"token0,omitempty"`
	Token1   string `json:"token1,omitempty"`
	Reserve0 string `json:"reserve0,omitempty"`
	Reserve1 string `json:"reserve1,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ListPools handles GET /api/v1/pairs
func (h *PoolHandler) ListPools(w http.ResponseWriter, r *http.Request) {
	results, err := h.pools.ListPools(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]PoolResponse, 0, len(results))
	for _, res := range results {
		if res.Error != nil {
			resp = append(resp, PoolResponse{Address: res.Pool.Address, Error: res.Error.Error()})
			continue
		}
		resp = append(resp, PoolResponse{
			Address:  res.Pool.Address,
			Token0:   res.Pool.Token0,
			Token1:   res.Pool.Token1,
			Reserve0: amountString(res.Pool.Reserve0),
			Reserve1: amountString(res.Pool.Reserve1),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
