package entities

// Token describes an asset known to the service. Address is the chain-native
// identifier string (hex address on EVM chains, strkey on Soroban).
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// Well-known Ethereum mainnet tokens, used when no token file is configured.
var (
	WETH = Token{
		Address:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Symbol:   "WETH",
		Name:     "Wrapped Ether",
		Decimals: 18,
	}
	USDC = Token{
		Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 6,
	}
	USDT = Token{
		Address:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
	}
	DAI = Token{
		Address:  "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		Symbol:   "DAI",
		Name:     "Dai Stablecoin",
		Decimals: 18,
	}
)
