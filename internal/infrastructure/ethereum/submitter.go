package ethereum

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/domain/services"
)

// DryRunSubmitter implements services.TxSubmitter by executing transactions
// with eth_call. Nothing is signed or broadcast, so results carry no hash.
type DryRunSubmitter struct {
	client *Client
}

func NewDryRunSubmitter(client *Client) *DryRunSubmitter {
	return &DryRunSubmitter{client: client}
}

// SubmitTransaction reports a revert as an unsuccessful result. Transport
// failures are returned as errors.
func (s *DryRunSubmitter) SubmitTransaction(ctx context.Context, tx services.TxParams) (services.SubmitResult, error) {
	if !common.IsHexAddress(tx.To) {
		return services.SubmitResult{}, entities.NewValidationError("invalid contract address %q", tx.To)
	}
	to := common.HexToAddress(tx.To)
	msg := ethereum.CallMsg{To: &to, Data: tx.Data}
	if common.IsHexAddress(tx.From) {
		msg.From = common.HexToAddress(tx.From)
	}

	out, err := s.client.CallContract(ctx, msg)
	if err != nil {
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			return services.SubmitResult{Success: false, Reason: err.Error()}, nil
		}
		return services.SubmitResult{}, err
	}
	return services.SubmitResult{Success: true, Data: out}, nil
}
