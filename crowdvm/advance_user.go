// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type createUserArgs struct {
	Address common.Address `json:"address"`
	Role    UserRole       `json:"role"`
}

func (e *Engine) createUser(env *Env, state State, data json.RawMessage) error {
	args := createUserArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	user, err := NewUser(args.Address, args.Role, env.Timestamp())
	if err != nil {
		return err
	}
	if _, err := state.AddUser(user); err != nil {
		return err
	}
	return env.Notice("user created", user)
}

type deleteUserArgs struct {
	Address common.Address `json:"address"`
}

func (e *Engine) deleteUser(env *Env, state State, data json.RawMessage) error {
	args := deleteUserArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	user, err := state.GetUserByAddress(args.Address)
	if err != nil {
		return err
	}
	if err := state.DeleteUser(user.Id); err != nil {
		return err
	}
	return env.Notice("user deleted", user)
}

type withdrawArgs struct {
	Token  common.Address `json:"token"`
	Amount Amount         `json:"amount"`
}

type withdrawReceipt struct {
	Token  common.Address `json:"token"`
	Amount Amount         `json:"amount"`
	User   common.Address `json:"user"`
}

// withdraw moves funds from the sender's accounted balance to an on-chain
// transfer voucher. Escrowed funds (collateral, pending orders) are not
// reachable here.
func (e *Engine) withdraw(env *Env, state State, data json.RawMessage) error {
	args := withdrawArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	if args.Amount.IsZero() {
		return fmt.Errorf("%w: amount cannot be zero", ErrInvalidRequest)
	}

	user, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	if err := state.Debit(user.Address, args.Token, &args.Amount); err != nil {
		return err
	}

	payload, err := erc20TransferPayload(user.Address, &args.Amount)
	if err != nil {
		return err
	}
	env.Voucher(args.Token, nil, payload)

	return env.Notice("ERC20 withdrawn", withdrawReceipt{
		Token:  args.Token,
		Amount: args.Amount,
		User:   user.Address,
	})
}

type emergencyERC20Args struct {
	To    common.Address `json:"to"`
	Token common.Address `json:"token"`
}

func (e *Engine) emergencyERC20Withdraw(env *Env, state State, data json.RawMessage) error {
	args := emergencyERC20Args{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	payload, err := emergencyERC20Payload(args.To, env.Sender(), args.Token)
	if err != nil {
		return err
	}
	env.DelegateCallVoucher(e.cfg.EmergencyWithdraw, payload)
	return nil
}

type emergencyEtherArgs struct {
	To common.Address `json:"to"`
}

func (e *Engine) emergencyEtherWithdraw(env *Env, state State, data json.RawMessage) error {
	args := emergencyEtherArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	payload, err := emergencyEtherPayload(args.To, env.Sender())
	if err != nil {
		return err
	}
	env.DelegateCallVoucher(e.cfg.EmergencyWithdraw, payload)
	return nil
}
