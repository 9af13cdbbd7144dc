package amm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

func TestMinimumOut(t *testing.T) {
	testCases := []struct {
		amount   int64
		slippage uint16
		want     string
	}{
		{996006, 50, "991025"},
		{996006, 0, "996006"},
		{996006, 10000, "0"},
		{3, 5000, "1"},
	}
	for _, tc := range testCases {
		got, err := MinimumOut(big.NewInt(tc.amount), tc.slippage)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.String(), "MinimumOut(%d, %d)", tc.amount, tc.slippage)
	}

	_, err := MinimumOut(big.NewInt(1), 10001)
	assert.ErrorIs(t, err, entities.ErrInvalidSlippage)
}

func TestMaximumIn(t *testing.T) {
	testCases := []struct {
		amount   int64
		slippage uint16
		want     string
	}{
		{251822, 50, "253082"},
		{251822, 0, "251822"},
		{3, 5000, "5"},
		{10000, 100, "10100"},
	}
	for _, tc := range testCases {
		got, err := MaximumIn(big.NewInt(tc.amount), tc.slippage)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.String(), "MaximumIn(%d, %d)", tc.amount, tc.slippage)
	}

	_, err := MaximumIn(big.NewInt(1), 10001)
	assert.ErrorIs(t, err, entities.ErrInvalidSlippage)
}
