package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
	"go.uber.org/zap"
)

// Decoder extracts the events of one pool contract from transaction metadata.
// It never fails: anything it cannot interpret is skipped.
type Decoder struct {
	logger  *zap.Logger
	decoded *prometheus.CounterVec
}

// NewDecoder creates a Decoder. decoded, when non-nil, is incremented with
// the event kind as its only label for every event produced.
func NewDecoder(logger *zap.Logger, decoded *prometheus.CounterVec) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger, decoded: decoded}
}

// DecodeBase64 decodes a base64 TransactionMeta XDR blob. Input that does
// not parse yields no events.
func (d *Decoder) DecodeBase64(metaXDR string, pool string) []PairEvent {
	var meta xdr.TransactionMeta
	if err := xdr.SafeUnmarshalBase64(metaXDR, &meta); err != nil {
		d.logger.Debug("skipping unparseable transaction meta", zap.Error(err))
		return []PairEvent{}
	}
	return d.Decode(meta, pool)
}

// Decode returns the events emitted by pool in meta, in emission order.
func (d *Decoder) Decode(meta xdr.TransactionMeta, pool string) []PairEvent {
	out := []PairEvent{}
	for _, ev := range contractEvents(meta) {
		if ev.ContractId == nil {
			continue
		}
		id, err := strkey.Encode(strkey.VersionByteContract, ev.ContractId[:])
		if err != nil || id != pool {
			continue
		}
		if ev.Body.V != 0 || ev.Body.V0 == nil {
			continue
		}

		pe, ok := decodeBody(ev.Body.V0.Topics, ev.Body.V0.Data)
		if !ok {
			d.logger.Debug("skipping pool event", zap.String("pool", pool), zap.Int("topics", len(ev.Body.V0.Topics)))
			continue
		}
		if d.decoded != nil {
			d.decoded.WithLabelValues(string(pe.Kind())).Inc()
		}
		out = append(out, pe)
	}
	return out
}

// contractEvents flattens the contract events of every meta version that
// carries them. Older versions have none.
func contractEvents(meta xdr.TransactionMeta) []xdr.ContractEvent {
	switch meta.V {
	case 3:
		if meta.V3 == nil || meta.V3.SorobanMeta == nil {
			return nil
		}
		return meta.V3.SorobanMeta.Events
	case 4:
		if meta.V4 == nil {
			return nil
		}
		var evs []xdr.ContractEvent
		for _, op := range meta.V4.Operations {
			evs = append(evs, op.Events...)
		}
		return evs
	}
	return nil
}

func decodeBody(topics []xdr.ScVal, data xdr.ScVal) (PairEvent, bool) {
	if len(topics) == 0 {
		return nil, false
	}
	tag, ok := symbol(topics[0])
	if !ok {
		return nil, false
	}
	fields, ok := vector(data)
	if !ok {
		return nil, false
	}

	switch Kind(tag) {
	case KindMint:
		sender, ok := topicSender(topics)
		if !ok || len(fields) != 3 {
			return nil, false
		}
		n, ok := amounts(fields)
		if !ok {
			return nil, false
		}
		return MintEvent{Sender: sender, Amount0: n[0], Amount1: n[1], Liquidity: n[2]}, true

	case KindBurn:
		sender, ok := topicSender(topics)
		if !ok || len(fields) != 4 {
			return nil, false
		}
		n, ok := amounts(fields[:3])
		if !ok {
			return nil, false
		}
		to, ok := address(fields[3])
		if !ok {
			return nil, false
		}
		return BurnEvent{Sender: sender, Amount0: n[0], Amount1: n[1], Liquidity: n[2], To: to}, true

	case KindSwap:
		sender, ok := topicSender(topics)
		if !ok || len(fields) != 4 {
			return nil, false
		}
		tokenIn, ok := address(fields[0])
		if !ok {
			return nil, false
		}
		tokenOut, ok := address(fields[1])
		if !ok {
			return nil, false
		}
		n, ok := amounts(fields[2:])
		if !ok {
			return nil, false
		}
		return SwapEvent{Sender: sender, TokenIn: tokenIn, TokenOut: tokenOut, AmountIn: n[0], AmountOut: n[1]}, true

	case KindSync:
		if len(fields) != 2 {
			return nil, false
		}
		n, ok := amounts(fields)
		if !ok {
			return nil, false
		}
		return SyncEvent{Reserve0: n[0], Reserve1: n[1]}, true
	}
	return nil, false
}

// topicSender reads the address in topic[1].
func topicSender(topics []xdr.ScVal) (string, bool) {
	if len(topics) < 2 {
		return "", false
	}
	return address(topics[1])
}
