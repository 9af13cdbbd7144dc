package dex

import (
	"github.com/bimakw/amm-quoter/internal/domain/services"
)

// PoolSource is everything the quoting services read from a chain.
type PoolSource interface {
	services.PoolRegistry
	services.PoolView
	services.LPTokenView
}

var (
	_ PoolSource             = (*UniswapV2Reader)(nil)
	_ services.RouterBuilder = (*UniswapV2RouterBuilder)(nil)
)
