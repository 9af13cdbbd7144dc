package amm

import (
	"fmt"
	"math/big"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

type leg struct {
	tokenIn    string
	tokenOut   string
	reserveIn  *big.Int
	reserveOut *big.Int
}

// orient checks that pairs[i] joins path[i] and path[i+1] and returns the
// reserves of every hop in trade direction.
func orient(path []string, pairs []entities.TokenPairReserves) ([]leg, error) {
	if len(path) < 2 {
		return nil, entities.ErrInvalidPath
	}
	if len(pairs) != len(path)-1 {
		return nil, fmt.Errorf("%w: %d tokens need %d pairs, got %d",
			entities.ErrPairMismatch, len(path), len(path)-1, len(pairs))
	}

	legs := make([]leg, len(pairs))
	for i, pair := range pairs {
		tokenIn, tokenOut := path[i], path[i+1]
		if entities.SameToken(tokenIn, tokenOut) {
			return nil, fmt.Errorf("%w at hop %d: %s", entities.ErrIdenticalTokens, i, tokenIn)
		}
		reserveIn, reserveOut, ok := pair.Oriented(tokenIn)
		if !ok || !pair.Contains(tokenOut) {
			return nil, fmt.Errorf("%w at hop %d: pair %s/%s cannot trade %s -> %s",
				entities.ErrPairMismatch, i, pair.Token0, pair.Token1, tokenIn, tokenOut)
		}
		legs[i] = leg{tokenIn: tokenIn, tokenOut: tokenOut, reserveIn: reserveIn, reserveOut: reserveOut}
	}
	return legs, nil
}

// EvaluateExactIn walks path forward, feeding each hop's output into the next.
func EvaluateExactIn(path []string, pairs []entities.TokenPairReserves, amountIn *big.Int, feeBps uint16) (*entities.RouteResult, error) {
	legs, err := orient(path, pairs)
	if err != nil {
		return nil, err
	}
	if !positive(amountIn) {
		return nil, entities.ErrAmountNotPositive
	}

	amounts := make([]*big.Int, len(legs)+1)
	amounts[0] = new(big.Int).Set(amountIn)
	for i, l := range legs {
		out, err := GetAmountOut(amounts[i], l.reserveIn, l.reserveOut, feeBps)
		if err != nil {
			return nil, fmt.Errorf("hop %d (%s -> %s): %w", i, l.tokenIn, l.tokenOut, err)
		}
		amounts[i+1] = out
	}
	return summarize(legs, amounts, feeBps), nil
}

// EvaluateExactOut walks path backward from the requested output, each hop
// requiring the input computed by GetAmountIn as the previous hop's output.
func EvaluateExactOut(path []string, pairs []entities.TokenPairReserves, amountOut *big.Int, feeBps uint16) (*entities.RouteResult, error) {
	legs, err := orient(path, pairs)
	if err != nil {
		return nil, err
	}
	if !positive(amountOut) {
		return nil, entities.ErrAmountNotPositive
	}

	amounts := make([]*big.Int, len(legs)+1)
	amounts[len(legs)] = new(big.Int).Set(amountOut)
	for i := len(legs) - 1; i >= 0; i-- {
		l := legs[i]
		in, err := GetAmountIn(amounts[i+1], l.reserveIn, l.reserveOut, feeBps)
		if err != nil {
			return nil, fmt.Errorf("hop %d (%s -> %s): %w", i, l.tokenIn, l.tokenOut, err)
		}
		amounts[i] = in
	}
	return summarize(legs, amounts, feeBps), nil
}

// summarize builds per-hop results and the route aggregates. amounts[i] is
// the input of hop i and amounts[i+1] its output.
func summarize(legs []leg, amounts []*big.Int, feeBps uint16) *entities.RouteResult {
	hops := make([]entities.HopResult, len(legs))

	// Cumulative spot rate of hops [0, i), as spotNum/spotDen.
	spotNum, spotDen := big.NewInt(1), big.NewInt(1)
	totalFee := new(big.Int)

	for i, l := range legs {
		fee := FeeAmount(amounts[i], feeBps)
		hops[i] = entities.HopResult{
			TokenIn:        l.tokenIn,
			TokenOut:       l.tokenOut,
			AmountIn:       amounts[i],
			AmountOut:      amounts[i+1],
			FeeBps:         feeBps,
			FeeAmount:      fee,
			PriceImpactBps: PriceImpactBps(amounts[i], amounts[i+1], l.reserveOut, l.reserveIn),
		}

		// Express the hop fee in route input units at the spot rates of the
		// preceding hops before adding it up.
		converted := new(big.Int).Mul(fee, spotDen)
		totalFee.Add(totalFee, converted.Quo(converted, spotNum))

		spotNum.Mul(spotNum, l.reserveOut)
		spotDen.Mul(spotDen, l.reserveIn)
	}

	amountIn, amountOut := amounts[0], amounts[len(amounts)-1]
	return &entities.RouteResult{
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		FeeAmount:      totalFee,
		PriceImpactBps: PriceImpactBps(amountIn, amountOut, spotNum, spotDen),
		Hops:           hops,
	}
}
