package amm

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// GetAmountOut returns the output of selling amountIn into a pool, rounded
// down:
//
//	amountOut = amountIn*(10000-fee)*reserveOut / (reserveIn*10000 + amountIn*(10000-fee))
//
// A fee of 10000 bps consumes the whole input and yields zero.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if !positive(amountIn) {
		return nil, entities.ErrAmountNotPositive
	}
	if !positive(reserveIn) || !positive(reserveOut) {
		return nil, entities.ErrInsufficientLiquidity
	}
	if feeBps > BasisPoints {
		return nil, entities.ErrInvalidFee
	}

	in, err := toU256(amountIn)
	if err != nil {
		return nil, err
	}
	rIn, err := toU256(reserveIn)
	if err != nil {
		return nil, err
	}
	rOut, err := toU256(reserveOut)
	if err != nil {
		return nil, err
	}

	amountInWithFee, overflow := new(uint256.Int).MulOverflow(in, uint256.NewInt(uint64(BasisPoints-feeBps)))
	if overflow {
		return nil, overflowErr("amountIn * feeMultiplier")
	}

	denominator, overflow := new(uint256.Int).MulOverflow(rIn, bps)
	if overflow {
		return nil, overflowErr("reserveIn * 10000")
	}
	if _, overflow = denominator.AddOverflow(denominator, amountInWithFee); overflow {
		return nil, overflowErr("swap denominator")
	}

	amountOut, overflow := new(uint256.Int).MulDivOverflow(amountInWithFee, rOut, denominator)
	if overflow {
		return nil, overflowErr("swap numerator")
	}
	return amountOut.ToBig(), nil
}

// GetAmountIn returns the input required to buy amountOut from a pool,
// rounded up so the caller never under-supplies:
//
//	amountIn = ceil(reserveIn*amountOut*10000 / ((reserveOut-amountOut)*(10000-fee)))
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if !positive(amountOut) {
		return nil, entities.ErrAmountNotPositive
	}
	if !positive(reserveIn) || !positive(reserveOut) {
		return nil, entities.ErrInsufficientLiquidity
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, entities.ErrOutputExceedsReserve
	}
	if feeBps >= BasisPoints {
		return nil, entities.ErrFeeConsumesInput
	}

	out, err := toU256(amountOut)
	if err != nil {
		return nil, err
	}
	rIn, err := toU256(reserveIn)
	if err != nil {
		return nil, err
	}
	rOut, err := toU256(reserveOut)
	if err != nil {
		return nil, err
	}

	scaledReserveIn, overflow := new(uint256.Int).MulOverflow(rIn, bps)
	if overflow {
		return nil, overflowErr("reserveIn * 10000")
	}

	denominator := new(uint256.Int).Sub(rOut, out)
	if _, overflow = denominator.MulOverflow(denominator, uint256.NewInt(uint64(BasisPoints-feeBps))); overflow {
		return nil, overflowErr("exact-output denominator")
	}

	amountIn, overflow := new(uint256.Int).MulDivOverflow(scaledReserveIn, out, denominator)
	if overflow {
		return nil, overflowErr("exact-output numerator")
	}
	if !new(uint256.Int).MulMod(scaledReserveIn, out, denominator).IsZero() {
		amountIn.AddUint64(amountIn, 1)
	}
	return amountIn.ToBig(), nil
}

// FeeAmount is the part of amountIn retained by the pool, rounded down.
func FeeAmount(amountIn *big.Int, feeBps uint16) *big.Int {
	fee := new(big.Int).Mul(amountIn, big.NewInt(int64(feeBps)))
	return fee.Quo(fee, bigBps)
}

// PriceImpactBps returns floor(10000 * (1 - actualRate/spotRate)) where
// actualRate = amountOut/amountIn and spotRate = spotNum/spotDen.
func PriceImpactBps(amountIn, amountOut, spotNum, spotDen *big.Int) uint64 {
	// 1 - (out/in)/(num/den) = (in*num - out*den) / (in*num)
	expected := new(big.Int).Mul(amountIn, spotNum)
	if expected.Sign() <= 0 {
		return 0
	}
	diff := new(big.Int).Mul(amountOut, spotDen)
	diff.Sub(expected, diff)
	if diff.Sign() <= 0 {
		return 0
	}
	diff.Mul(diff, bigBps)
	return diff.Quo(diff, expected).Uint64()
}
