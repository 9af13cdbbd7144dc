package entities

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/stellar/go-stellar-sdk/strkey"
)

// Reserves is the raw reserve state of a pool in canonical token order.
type Reserves struct {
	Reserve0 *big.Int `json:"reserve0"`
	Reserve1 *big.Int `json:"reserve1"`
}

// TokenPairReserves holds the reserves of a pool keyed by its canonical
// token ordering (Token0 < Token1).
type TokenPairReserves struct {
	Token0   string   `json:"token0"`
	Token1   string   `json:"token1"`
	Reserve0 *big.Int `json:"reserve0"`
	Reserve1 *big.Int `json:"reserve1"`
}

// NewTokenPairReserves maps reserves given in caller order onto the
// canonical token0/token1 ordering.
func NewTokenPairReserves(tokenA, tokenB string, reserveA, reserveB *big.Int) TokenPairReserves {
	if TokenLess(tokenA, tokenB) {
		return TokenPairReserves{Token0: tokenA, Token1: tokenB, Reserve0: reserveA, Reserve1: reserveB}
	}
	return TokenPairReserves{Token0: tokenB, Token1: tokenA, Reserve0: reserveB, Reserve1: reserveA}
}

// Contains reports whether token is one side of the pair.
func (p TokenPairReserves) Contains(token string) bool {
	return SameToken(p.Token0, token) || SameToken(p.Token1, token)
}

// Oriented returns (reserveIn, reserveOut) for a trade that sells tokenIn.
func (p TokenPairReserves) Oriented(tokenIn string) (reserveIn, reserveOut *big.Int, ok bool) {
	switch {
	case SameToken(p.Token0, tokenIn):
		return p.Reserve0, p.Reserve1, true
	case SameToken(p.Token1, tokenIn):
		return p.Reserve1, p.Reserve0, true
	}
	return nil, nil, false
}

// SortTokens sorts two token identifiers into canonical order.
func SortTokens(tokenA, tokenB string) (string, string) {
	if TokenLess(tokenA, tokenB) {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// TokenLess is the total order used to pick token0.
//
// Hex addresses are compared case-insensitively, which for equal-length hex
// is their numeric order. Two Stellar strkeys are compared like Soroban
// addresses: accounts before contracts, then by raw key bytes. The base32
// text order of strkeys does not follow their byte order. Anything else falls
// back to case-insensitive string order.
func TokenLess(a, b string) bool {
	if ka, ok := decodeStrkey(a); ok {
		if kb, ok := decodeStrkey(b); ok {
			if ka.rank != kb.rank {
				return ka.rank < kb.rank
			}
			return bytes.Compare(ka.payload, kb.payload) < 0
		}
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

type strkeyID struct {
	rank    int
	payload []byte
}

func decodeStrkey(s string) (strkeyID, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strkeyID{}, false
	}
	version, payload, err := strkey.DecodeAny(s)
	if err != nil {
		return strkeyID{}, false
	}
	switch version {
	case strkey.VersionByteAccountID:
		return strkeyID{rank: 0, payload: payload}, true
	case strkey.VersionByteContract:
		return strkeyID{rank: 1, payload: payload}, true
	}
	return strkeyID{rank: 2 + int(version), payload: payload}, true
}

// SameToken compares two identifiers under the same normalization as TokenLess.
func SameToken(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Pool is a deployed pool with its current reserves.
type Pool struct {
	Address string `json:"address"`
	TokenPairReserves
}
