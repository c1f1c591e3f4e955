// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var _ BalanceState = (*balanceState)(nil)

// BalanceState tracks withdrawable funds per (owner, token). Deposits held
// in escrow (collateral, pending orders) are not balances; handlers credit
// a balance only when funds become claimable.
type BalanceState interface {
	Balance(owner, token common.Address) (Amount, error)
	Credit(owner, token common.Address, amount *Amount) error
	Debit(owner, token common.Address, amount *Amount) error
}

type balanceState struct {
	balanceDB database.Database
}

func NewBalanceState(db database.Database) BalanceState {
	return &balanceState{balanceDB: db}
}

func balanceKey(owner, token common.Address) []byte {
	key := make([]byte, 0, common.AddressLength*2)
	key = append(key, owner[:]...)
	key = append(key, token[:]...)
	return key
}

func (s *balanceState) Balance(owner, token common.Address) (Amount, error) {
	var balance Amount
	raw, err := s.balanceDB.Get(balanceKey(owner, token))
	if errors.Is(err, database.ErrNotFound) {
		return balance, nil
	}
	if err != nil {
		return balance, err
	}
	balance.SetBytes(raw)
	return balance, nil
}

func (s *balanceState) Credit(owner, token common.Address, amount *Amount) error {
	balance, err := s.Balance(owner, token)
	if err != nil {
		return err
	}
	var next uint256.Int
	next.Add(&balance.Int, &amount.Int)
	b32 := next.Bytes32()
	return s.balanceDB.Put(balanceKey(owner, token), b32[:])
}

func (s *balanceState) Debit(owner, token common.Address, amount *Amount) error {
	balance, err := s.Balance(owner, token)
	if err != nil {
		return err
	}
	if balance.Lt(&amount.Int) {
		return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, balance.Dec(), amount.Dec())
	}
	var next uint256.Int
	next.Sub(&balance.Int, &amount.Int)
	b32 := next.Bytes32()
	return s.balanceDB.Put(balanceKey(owner, token), b32[:])
}
