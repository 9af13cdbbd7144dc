package entities

import "fmt"

// ValidationError reports bad or out-of-domain input to a quote, math or
// transaction-building operation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

var (
	ErrNegativeSqrt          = &ValidationError{Reason: "square root of negative number"}
	ErrAmountNotPositive     = &ValidationError{Reason: "amount must be greater than zero"}
	ErrInsufficientLiquidity = &ValidationError{Reason: "insufficient liquidity"}
	ErrOutputExceedsReserve  = &ValidationError{Reason: "output exceeds available reserve"}
	ErrMinExceedsDesired     = &ValidationError{Reason: "minimum amount exceeds desired amount"}
	ErrInsufficientMinted    = &ValidationError{Reason: "deposit too small to mint liquidity"}
	ErrNothingToRedeem       = &ValidationError{Reason: "pool has no liquidity to redeem"}
	ErrInvalidFee            = &ValidationError{Reason: "fee must not exceed 10000 bps"}
	ErrFeeConsumesInput      = &ValidationError{Reason: "fee must be below 10000 bps to reach an output"}
	ErrInvalidSlippage       = &ValidationError{Reason: "slippage must not exceed 10000 bps"}
	ErrInvalidPath           = &ValidationError{Reason: "path must contain at least two tokens"}
	ErrIdenticalTokens       = &ValidationError{Reason: "identical tokens"}
	ErrPairMismatch          = &ValidationError{Reason: "pair does not match path"}
	ErrArithmeticOverflow    = &ValidationError{Reason: "arithmetic overflow"}
	ErrPoolNotFound          = &ValidationError{Reason: "pool not found"}
)

// TransactionError reports that the submission collaborator rejected or
// failed a transaction.
type TransactionError struct {
	TxHash string
	Reason string
}

func (e *TransactionError) Error() string {
	if e.TxHash == "" {
		return "transaction failed: " + e.Reason
	}
	return fmt.Sprintf("transaction %s failed: %s", e.TxHash, e.Reason)
}
