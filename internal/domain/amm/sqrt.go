package amm

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// Sqrt returns floor(sqrt(value)) using Newton's iteration on 256-bit words.
func Sqrt(value *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, entities.NewValidationError("square root of nil value")
	}
	if value.Sign() < 0 {
		return nil, entities.ErrNegativeSqrt
	}

	v, err := toU256(value)
	if err != nil {
		return nil, err
	}
	return sqrtU256(v).ToBig(), nil
}

func sqrtU256(v *uint256.Int) *uint256.Int {
	if v.IsZero() {
		return new(uint256.Int)
	}

	// 2^ceil(bitlen/2) is never below the true root.
	x := new(uint256.Int).Lsh(uint256.NewInt(1), uint((v.BitLen()+1)/2))
	y := new(uint256.Int)
	for {
		y.Div(v, x)
		y.Add(y, x)
		y.Rsh(y, 1)
		if !y.Lt(x) {
			return x
		}
		x.Set(y)
	}
}
