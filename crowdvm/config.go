// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ClosePolicy decides what happens to pending orders that do not fit under
// the debt cap when a campaign closes.
type ClosePolicy string

const (
	// ClosePolicyRefund cancels losing orders and credits the escrowed
	// amount back to the investor's withdrawable balance.
	ClosePolicyRefund ClosePolicy = "refund"
	// ClosePolicyCarry leaves losing orders pending.
	ClosePolicyCarry ClosePolicy = "carry"
)

// Config carries the addresses and rules the engine cannot derive from its
// inputs. All fields are fixed for the lifetime of the machine; changing any
// of them forks the replayed state.
type Config struct {
	// ERC20Portal is the sender address that marks an input as a deposit
	// envelope rather than a plain JSON command.
	ERC20Portal common.Address

	// BadgeFactory receives the newBadge voucher and is the CREATE2
	// deployer the badge address is derived from.
	BadgeFactory common.Address

	// SafeMint is the delegate-call target used to mint bond and discharge
	// certificates on a campaign's badge collection.
	SafeMint common.Address

	// EmergencyWithdraw is the delegate-call target for admin sweeps.
	EmergencyWithdraw common.Address

	// BadgeBytecode is the creation code of the badge collection contract;
	// its keccak hash (together with the abi-encoded application address)
	// pins the derived badge addresses.
	BadgeBytecode []byte

	// Admin and Verifier are seeded as users 1 and 2 at genesis.
	Admin    common.Address
	Verifier common.Address

	// PlatformFeeBps is deducted from the creator's raised proceeds at
	// close, in basis points, and credited to the admin.
	PlatformFeeBps uint64

	ClosePolicy ClosePolicy
}

func (c *Config) Validate() error {
	if c.Admin == (common.Address{}) {
		return fmt.Errorf("%w: admin address is required", ErrInvalidRequest)
	}
	if c.Verifier == (common.Address{}) {
		return fmt.Errorf("%w: verifier address is required", ErrInvalidRequest)
	}
	if c.Admin == c.Verifier {
		return fmt.Errorf("%w: admin and verifier must differ", ErrInvalidRequest)
	}
	if len(c.BadgeBytecode) == 0 {
		return fmt.Errorf("%w: badge bytecode is required", ErrInvalidRequest)
	}
	if c.PlatformFeeBps > 10000 {
		return fmt.Errorf("%w: platform fee above 100%%", ErrInvalidRequest)
	}
	switch c.ClosePolicy {
	case "", ClosePolicyRefund, ClosePolicyCarry:
	default:
		return fmt.Errorf("%w: unknown close policy %q", ErrInvalidRequest, c.ClosePolicy)
	}
	return nil
}

func (c *Config) closePolicy() ClosePolicy {
	if c.ClosePolicy == "" {
		return ClosePolicyRefund
	}
	return c.ClosePolicy
}

// Metadata accompanies every advance input. BlockTimestamp is the only
// clock the engine ever reads.
type Metadata struct {
	MsgSender      common.Address `json:"msg_sender"`
	AppContract    common.Address `json:"app_contract"`
	BlockTimestamp int64          `json:"block_timestamp"`
	Index          uint64         `json:"index"`
}
