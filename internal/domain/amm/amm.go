// Package amm implements the integer arithmetic of a constant-product pool:
// square root, swap formulas with basis-point fees, route evaluation and
// liquidity accounting. Every function is pure and safe for concurrent use.
//
// Amounts cross the package boundary as *big.Int. Swap and square-root math
// runs on 256-bit words with 512-bit intermediates, so reserves anywhere in the
// 128-bit range never overflow.
package amm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

const (
	// BasisPoints is 100% expressed in basis points.
	BasisPoints = 10000

	// MinLiquidity is locked forever by the first deposit into a pool.
	MinLiquidity = 1000
)

var (
	// PriceScale is the fixed-point scale of quoted prices (1e18). It MUST NOT
	// be modified.
	PriceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	bps          = uint256.NewInt(BasisPoints)
	bigBps       = big.NewInt(BasisPoints)
	minLiquidity = big.NewInt(MinLiquidity)
)

func positive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}

// toU256 converts a non-negative big integer into a 256-bit word.
func toU256(v *big.Int) (*uint256.Int, error) {
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds 256 bits", entities.ErrArithmeticOverflow, v)
	}
	return u, nil
}

func overflowErr(op string) error {
	return fmt.Errorf("%w in %s", entities.ErrArithmeticOverflow, op)
}
