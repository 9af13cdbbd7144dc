package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stellar/go-stellar-sdk/strkey"

	"github.com/bimakw/amm-quoter/internal/infrastructure/dex"
)

type Config struct {
	Port           string
	RPCEndpoint    string
	RedisAddr      string
	RedisPassword  string
	LogLevel       string
	FeeBps         uint16
	DeadlineTTL    time.Duration
	FactoryAddress common.Address
	RouterAddress  common.Address
	MaxPairs       int
	TokensFile     string
	// PoolMap maps pool contract ids to the pair address their events update.
	PoolMap map[string]string
}

func FromEnv() (*Config, error) {
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	feeBps, err := strconv.ParseUint(getEnv("FEE_BPS", "30"), 10, 16)
	if err != nil || feeBps > 10000 {
		return nil, ErrInvalidFeeBps
	}

	ttl, err := time.ParseDuration(getEnv("DEADLINE_TTL", "20m"))
	if err != nil || ttl <= 0 {
		return nil, ErrInvalidDeadlineTTL
	}

	factory, err := parseAddress("FACTORY_ADDRESS", getEnv("FACTORY_ADDRESS", dex.UniswapV2FactoryAddress.Hex()))
	if err != nil {
		return nil, err
	}
	router, err := parseAddress("ROUTER_ADDRESS", getEnv("ROUTER_ADDRESS", dex.UniswapV2Router02Address.Hex()))
	if err != nil {
		return nil, err
	}

	maxPairs, err := strconv.Atoi(getEnv("MAX_PAIRS", "500"))
	if err != nil || maxPairs <= 0 {
		return nil, ErrInvalidMaxPairs
	}

	poolMap, err := parsePoolMap(os.Getenv("POOL_MAP"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		RPCEndpoint:    rpcURL,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FeeBps:         uint16(feeBps),
		DeadlineTTL:    ttl,
		FactoryAddress: factory,
		RouterAddress:  router,
		MaxPairs:       maxPairs,
		TokensFile:     os.Getenv("TOKENS_FILE"),
		PoolMap:        poolMap,
	}

	return cfg, nil
}

// Deadline returns the default transaction deadline, now plus DeadlineTTL.
func (c *Config) Deadline() int64 {
	return time.Now().Add(c.DeadlineTTL).Unix()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseAddress(key, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w in %s: %q", ErrInvalidAddress, key, value)
	}
	return common.HexToAddress(value), nil
}

// parsePoolMap reads comma separated pool=pair entries, where pool is a
// contract strkey and pair a hex address.
func parsePoolMap(value string) (map[string]string, error) {
	pools := make(map[string]string)
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pool, pair, ok := strings.Cut(entry, "=")
		pool, pair = strings.TrimSpace(pool), strings.TrimSpace(pair)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not pool=pair", ErrInvalidPoolMap, entry)
		}
		if _, err := strkey.Decode(strkey.VersionByteContract, pool); err != nil {
			return nil, fmt.Errorf("%w: bad pool id %q", ErrInvalidPoolMap, pool)
		}
		if !common.IsHexAddress(pair) {
			return nil, fmt.Errorf("%w: bad pair address %q", ErrInvalidPoolMap, pair)
		}
		if _, dup := pools[pool]; dup {
			return nil, fmt.Errorf("%w: pool %s mapped twice", ErrInvalidPoolMap, pool)
		}
		pools[pool] = common.HexToAddress(pair).Hex()
	}
	return pools, nil
}
