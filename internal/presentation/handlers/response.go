package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeServiceError maps a domain error onto an HTTP status. Anything that is
// not a validation or transaction failure came from an upstream collaborator.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *entities.ValidationError
	var txErr *entities.TransactionError

	switch {
	case errors.Is(err, entities.ErrPoolNotFound):
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.As(err, &txErr):
		writeError(w, http.StatusBadGateway, "transaction_failed", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

// parseAmount parses a non-negative base-10 integer.
func parseAmount(s string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

// parseBps parses an optional basis-point value in [0, 10000].
func parseBps(s string, def uint16) (uint16, bool) {
	if s == "" {
		return def, true
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil || v > 10000 {
		return 0, false
	}
	return uint16(v), true
}

func amountString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
