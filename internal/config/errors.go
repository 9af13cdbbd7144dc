package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required ETH_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing ETH_RPC_URL environment variable")

// ErrInvalidFeeBps indicates that FEE_BPS is not an integer in [0, 10000].
var ErrInvalidFeeBps = errors.New("FEE_BPS must be an integer between 0 and 10000")

// ErrInvalidDeadlineTTL indicates that DEADLINE_TTL is not a positive duration.
var ErrInvalidDeadlineTTL = errors.New("DEADLINE_TTL must be a positive duration")

// ErrInvalidAddress indicates that an address variable is not a hex address.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidMaxPairs indicates that MAX_PAIRS is not a positive integer.
var ErrInvalidMaxPairs = errors.New("MAX_PAIRS must be a positive integer")

// ErrInvalidPoolMap indicates a malformed POOL_MAP entry.
var ErrInvalidPoolMap = errors.New("invalid POOL_MAP")
