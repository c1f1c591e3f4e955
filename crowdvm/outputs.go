// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Output is one of Voucher, DelegateCallVoucher or Notice, produced by a
// successful advance in emission order. Reports are returned by Inspect
// directly and never appear in an advance's output list.
type Output interface {
	output()
}

var (
	_ Output = (*Voucher)(nil)
	_ Output = (*DelegateCallVoucher)(nil)
	_ Output = (*Notice)(nil)
)

// Voucher is a deferred plain call executed later by the settlement chain.
type Voucher struct {
	Destination common.Address
	Value       *big.Int
	Payload     []byte
}

// DelegateCallVoucher is executed in the application contract's own
// context, for actions whose authority is scoped to the application itself.
type DelegateCallVoucher struct {
	Destination common.Address
	Payload     []byte
}

// Notice is an attestable log entry of the form "<verb phrase> - <json>".
type Notice struct {
	Payload []byte
}

// Report is the result of a single inspect query.
type Report struct {
	Payload []byte
}

func (*Voucher) output()             {}
func (*DelegateCallVoucher) output() {}
func (*Notice) output()              {}
