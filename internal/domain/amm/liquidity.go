package amm

import (
	"fmt"
	"math/big"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// FirstDepositLiquidity returns the LP tokens minted to the depositor of an
// empty pool: sqrt(amountA*amountB) - MinLiquidity.
func FirstDepositLiquidity(amountA, amountB *big.Int) (*big.Int, error) {
	if !positive(amountA) || !positive(amountB) {
		return nil, entities.ErrAmountNotPositive
	}

	root, err := Sqrt(new(big.Int).Mul(amountA, amountB))
	if err != nil {
		return nil, err
	}
	liquidity := root.Sub(root, minLiquidity)
	if liquidity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: sqrt(%s * %s) does not exceed %d",
			entities.ErrInsufficientMinted, amountA, amountB, MinLiquidity)
	}
	return liquidity, nil
}

// Quote returns the amount of token B matching amountA at the pool ratio,
// floor(amountA * reserveB / reserveA).
func Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, error) {
	if !positive(amountA) {
		return nil, entities.ErrAmountNotPositive
	}
	if !positive(reserveA) || !positive(reserveB) {
		return nil, entities.ErrInsufficientLiquidity
	}
	amountB := new(big.Int).Mul(amountA, reserveB)
	return amountB.Quo(amountB, reserveA), nil
}

// ProportionalLiquidity returns the LP tokens minted for depositing amountA
// into a live pool, floor(amountA * totalSupply / reserveA).
func ProportionalLiquidity(amountA, reserveA, totalSupply *big.Int) (*big.Int, error) {
	if !positive(amountA) {
		return nil, entities.ErrAmountNotPositive
	}
	if !positive(reserveA) {
		return nil, entities.ErrInsufficientLiquidity
	}
	if totalSupply == nil || totalSupply.Sign() < 0 {
		return nil, entities.NewValidationError("invalid total supply %v", totalSupply)
	}

	liquidity := new(big.Int).Mul(amountA, totalSupply)
	liquidity.Quo(liquidity, reserveA)
	if liquidity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s against reserve %s and supply %s",
			entities.ErrInsufficientMinted, amountA, reserveA, totalSupply)
	}
	return liquidity, nil
}

// SpotPrice returns floor(reserveNum * PriceScale / reserveDen).
func SpotPrice(reserveNum, reserveDen *big.Int) (*big.Int, error) {
	if !positive(reserveNum) || !positive(reserveDen) {
		return nil, entities.ErrInsufficientLiquidity
	}
	price := new(big.Int).Mul(reserveNum, PriceScale)
	return price.Quo(price, reserveDen), nil
}

// RedeemAmounts returns the underlying tokens released by burning liquidity.
func RedeemAmounts(liquidity, totalSupply, reserve0, reserve1 *big.Int) (amount0, amount1 *big.Int, err error) {
	if !positive(liquidity) {
		return nil, nil, entities.ErrAmountNotPositive
	}
	if !positive(totalSupply) {
		return nil, nil, entities.ErrNothingToRedeem
	}
	if liquidity.Cmp(totalSupply) > 0 {
		return nil, nil, entities.NewValidationError("liquidity %s exceeds total supply %s", liquidity, totalSupply)
	}
	return proRata(reserve0, liquidity, totalSupply), proRata(reserve1, liquidity, totalSupply), nil
}

// PositionValue values an LP balance against current reserves. An empty pool
// values every balance at zero.
func PositionValue(balance, totalSupply, reserve0, reserve1 *big.Int) (share float64, amount0, amount1 *big.Int) {
	if !positive(totalSupply) || balance == nil {
		return 0, new(big.Int), new(big.Int)
	}
	return Ratio(balance, totalSupply), proRata(reserve0, balance, totalSupply), proRata(reserve1, balance, totalSupply)
}

// Ratio returns num/den as an advisory float. A zero denominator yields 0.
func Ratio(num, den *big.Int) float64 {
	if den == nil || den.Sign() == 0 || num == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(num, den).Float64()
	return f
}

func proRata(reserve, part, total *big.Int) *big.Int {
	if reserve == nil {
		return new(big.Int)
	}
	v := new(big.Int).Mul(reserve, part)
	return v.Quo(v, total)
}
