package amm

import (
	"math/big"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// MinimumOut is the least output accepted for an exact-input trade under
// slippageBps tolerance, floor(amountOut*(10000-s)/10000).
func MinimumOut(amountOut *big.Int, slippageBps uint16) (*big.Int, error) {
	if slippageBps > BasisPoints {
		return nil, entities.ErrInvalidSlippage
	}
	v := new(big.Int).Mul(amountOut, big.NewInt(int64(BasisPoints-slippageBps)))
	return v.Quo(v, bigBps), nil
}

// MaximumIn is the most input spent on an exact-output trade under
// slippageBps tolerance, ceil(amountIn*(10000+s)/10000).
func MaximumIn(amountIn *big.Int, slippageBps uint16) (*big.Int, error) {
	if slippageBps > BasisPoints {
		return nil, entities.ErrInvalidSlippage
	}
	v := new(big.Int).Mul(amountIn, big.NewInt(int64(BasisPoints+int(slippageBps))))
	v.Add(v, big.NewInt(BasisPoints-1))
	return v.Quo(v, bigBps), nil
}
