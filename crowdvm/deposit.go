// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// depositArgs is the ERC20 portal envelope: token, sender, amount, followed
// by the application-level payload carried opaquely in the trailing bytes.
var depositArgs = abi.Arguments{
	{Type: mustNewType("address")},
	{Type: mustNewType("address")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("bytes")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// ERC20Deposit records funds already held by the application contract when
// the input is processed. Handlers that consume a deposit must either bind
// the full amount or fail the whole input.
type ERC20Deposit struct {
	Token  common.Address
	Sender common.Address
	Amount Amount
}

// DecodeDeposit splits a portal envelope into the deposit record and the
// inner command payload. Inputs whose msg_sender is not the portal must not
// be passed here.
func DecodeDeposit(payload []byte) (*ERC20Deposit, []byte, error) {
	values, err := depositArgs.Unpack(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: malformed deposit payload: %s", ErrInvalidRequest, err)
	}

	deposit := &ERC20Deposit{
		Token:  values[0].(common.Address),
		Sender: values[1].(common.Address),
	}
	amount, err := AmountFromBig(values[2].(*big.Int))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: deposit amount: %s", ErrInvalidRequest, err)
	}
	deposit.Amount = amount
	return deposit, values[3].([]byte), nil
}

// EncodeDeposit builds a portal envelope. The node uses it when relaying
// portal inputs; tests use it to fabricate deposits.
func EncodeDeposit(deposit *ERC20Deposit, inner []byte) ([]byte, error) {
	return depositArgs.Pack(deposit.Token, deposit.Sender, deposit.Amount.ToBig(), inner)
}
