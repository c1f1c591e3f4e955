// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import "errors"

// Every failure an advance or inspect can produce wraps exactly one of
// these. The host decides what to do with a rejected input; the engine
// guarantees a failed call left the ledger untouched and emitted nothing.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrState             = errors.New("invalid state transition")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
