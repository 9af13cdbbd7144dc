package services

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// LiquidityTxService validates liquidity router calls, builds them and hands
// them to a TxSubmitter.
type LiquidityTxService struct {
	builder   RouterBuilder
	submitter TxSubmitter
	deadline  DeadlineFunc
	logger    *zap.Logger
}

func NewLiquidityTxService(builder RouterBuilder, submitter TxSubmitter, deadline DeadlineFunc, logger *zap.Logger) *LiquidityTxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiquidityTxService{
		builder:   builder,
		submitter: submitter,
		deadline:  deadline,
		logger:    logger,
	}
}

// AddLiquidity submits a deposit. A zero Deadline is replaced by the default.
func (s *LiquidityTxService) AddLiquidity(ctx context.Context, p AddLiquidityParams) (*SubmitResult, error) {
	if err := checkMinimum("A", p.AmountADesired, p.AmountAMin); err != nil {
		return nil, err
	}
	if err := checkMinimum("B", p.AmountBDesired, p.AmountBMin); err != nil {
		return nil, err
	}
	if entities.SameToken(p.TokenA, p.TokenB) {
		return nil, entities.ErrIdenticalTokens
	}
	if p.Deadline == 0 {
		p.Deadline = s.defaultDeadline()
	}

	tx, err := s.builder.BuildAddLiquidity(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, "add_liquidity", tx)
}

// RemoveLiquidity submits a withdrawal. A zero Deadline is replaced by the
// default.
func (s *LiquidityTxService) RemoveLiquidity(ctx context.Context, p RemoveLiquidityParams) (*SubmitResult, error) {
	if p.Liquidity == nil || p.Liquidity.Sign() <= 0 {
		return nil, entities.ErrAmountNotPositive
	}
	if !nonNegative(p.AmountAMin) || !nonNegative(p.AmountBMin) {
		return nil, entities.NewValidationError("minimum amounts must not be negative")
	}
	if entities.SameToken(p.TokenA, p.TokenB) {
		return nil, entities.ErrIdenticalTokens
	}
	if p.Deadline == 0 {
		p.Deadline = s.defaultDeadline()
	}

	tx, err := s.builder.BuildRemoveLiquidity(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, "remove_liquidity", tx)
}

func (s *LiquidityTxService) submit(ctx context.Context, op string, tx TxParams) (*SubmitResult, error) {
	result, err := s.submitter.SubmitTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		reason := result.Reason
		if reason == "" {
			reason = "reported unsuccessful"
		}
		s.logger.Warn("transaction failed", zap.String("op", op), zap.String("txHash", result.TxHash), zap.String("reason", reason))
		return nil, &entities.TransactionError{TxHash: result.TxHash, Reason: reason}
	}

	s.logger.Info("transaction submitted", zap.String("op", op), zap.String("txHash", result.TxHash))
	return &result, nil
}

func (s *LiquidityTxService) defaultDeadline() int64 {
	if s.deadline == nil {
		return 0
	}
	return s.deadline()
}

// checkMinimum requires 0 <= min <= desired for one leg of a deposit.
func checkMinimum(leg string, desired, min *big.Int) error {
	if desired == nil || desired.Sign() <= 0 {
		return fmt.Errorf("%w: amount%sDesired", entities.ErrAmountNotPositive, leg)
	}
	if !nonNegative(min) {
		return entities.NewValidationError("amount%sMin must not be negative", leg)
	}
	if min != nil && min.Cmp(desired) > 0 {
		return fmt.Errorf("%w: amount%sMin %s > amount%sDesired %s", entities.ErrMinExceedsDesired, leg, min, leg, desired)
	}
	return nil
}

func nonNegative(v *big.Int) bool {
	return v == nil || v.Sign() >= 0
}
