// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Env is the per-input handler context. Outputs are buffered here and
// surrendered only if the handler returns nil, so a failed advance can
// never leak a partial emission.
type Env struct {
	meta     Metadata
	deposit  *ERC20Deposit
	consumed bool
	outputs  []Output
}

func newEnv(meta Metadata, deposit *ERC20Deposit) *Env {
	return &Env{meta: meta, deposit: deposit}
}

// Sender is the account the input is attributed to: the depositor when the
// input came through the portal, the raw message sender otherwise.
func (env *Env) Sender() common.Address {
	if env.deposit != nil {
		return env.deposit.Sender
	}
	return env.meta.MsgSender
}

func (env *Env) Timestamp() int64 { return env.meta.BlockTimestamp }

// AppContract is the application's own address on the settlement chain.
func (env *Env) AppContract() common.Address { return env.meta.AppContract }

// Index is the global index of the advance input being processed.
func (env *Env) Index() uint64 { return env.meta.Index }

// Deposit returns the deposit bound to this input, or ErrInvalidRequest for
// operations that are only meaningful when driven by one. Taking the deposit
// marks it consumed; deposits no handler takes are credited back to the
// depositor when the advance commits.
func (env *Env) Deposit() (*ERC20Deposit, error) {
	if env.deposit == nil {
		return nil, fmt.Errorf("%w: operation requires an ERC20 deposit", ErrInvalidRequest)
	}
	env.consumed = true
	return env.deposit, nil
}

// unclaimedDeposit is the deposit carried by this input that no handler took
// ownership of, or nil.
func (env *Env) unclaimedDeposit() *ERC20Deposit {
	if env.deposit == nil || env.consumed {
		return nil
	}
	return env.deposit
}

func (env *Env) Voucher(destination common.Address, value *big.Int, payload []byte) {
	if value == nil {
		value = new(big.Int)
	}
	env.outputs = append(env.outputs, &Voucher{
		Destination: destination,
		Value:       value,
		Payload:     payload,
	})
}

func (env *Env) DelegateCallVoucher(destination common.Address, payload []byte) {
	env.outputs = append(env.outputs, &DelegateCallVoucher{
		Destination: destination,
		Payload:     payload,
	})
}

// Notice emits "<verb> - <json of v>". v must marshal deterministically,
// which holds for every entity and view in this package.
func (env *Env) Notice(verb string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal notice body: %w", err)
	}
	payload := make([]byte, 0, len(verb)+3+len(body))
	payload = append(payload, verb...)
	payload = append(payload, " - "...)
	payload = append(payload, body...)
	env.outputs = append(env.outputs, &Notice{Payload: payload})
	return nil
}
