package events

import (
	"math/big"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// symbol returns the string held by a Sym or Str value.
func symbol(v xdr.ScVal) (string, bool) {
	switch v.Type {
	case xdr.ScValTypeScvSymbol:
		if v.Sym == nil {
			return "", false
		}
		return string(*v.Sym), true
	case xdr.ScValTypeScvString:
		if v.Str == nil {
			return "", false
		}
		return string(*v.Str), true
	}
	return "", false
}

func address(v xdr.ScVal) (string, bool) {
	if v.Type != xdr.ScValTypeScvAddress || v.Address == nil {
		return "", false
	}
	s, err := v.Address.String()
	if err != nil {
		return "", false
	}
	return s, true
}

// amount reads a non-negative integer of any width the contract may emit.
func amount(v xdr.ScVal) (*big.Int, bool) {
	switch v.Type {
	case xdr.ScValTypeScvU128:
		if v.U128 == nil {
			return nil, false
		}
		return parts128(uint64(v.U128.Hi), uint64(v.U128.Lo)), true
	case xdr.ScValTypeScvI128:
		if v.I128 == nil || int64(v.I128.Hi) < 0 {
			return nil, false
		}
		return parts128(uint64(v.I128.Hi), uint64(v.I128.Lo)), true
	case xdr.ScValTypeScvU64:
		if v.U64 == nil {
			return nil, false
		}
		return new(big.Int).SetUint64(uint64(*v.U64)), true
	case xdr.ScValTypeScvI64:
		if v.I64 == nil || *v.I64 < 0 {
			return nil, false
		}
		return big.NewInt(int64(*v.I64)), true
	case xdr.ScValTypeScvU32:
		if v.U32 == nil {
			return nil, false
		}
		return new(big.Int).SetUint64(uint64(*v.U32)), true
	case xdr.ScValTypeScvI32:
		if v.I32 == nil || *v.I32 < 0 {
			return nil, false
		}
		return big.NewInt(int64(*v.I32)), true
	}
	return nil, false
}

func parts128(hi, lo uint64) *big.Int {
	n := new(big.Int).SetUint64(hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(lo))
}

func vector(v xdr.ScVal) ([]xdr.ScVal, bool) {
	if v.Type != xdr.ScValTypeScvVec || v.Vec == nil || *v.Vec == nil {
		return nil, false
	}
	return **v.Vec, true
}

// amounts decodes every value in vals as an amount, failing on the first
// value that is not one.
func amounts(vals []xdr.ScVal) ([]*big.Int, bool) {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		n, ok := amount(v)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
