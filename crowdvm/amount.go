// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
)

var errInvalidAmount = errors.New("invalid amount")

// Amount is a 256-bit unsigned integer that serializes as a decimal string.
// Every monetary value that crosses the notice/report boundary uses this
// type so that replayed inputs always produce byte-identical output JSON.
type Amount struct {
	uint256.Int
}

func NewAmount(v uint64) Amount {
	var a Amount
	a.SetUint64(v)
	return a
}

// AmountFromBig truncation is an error, never silent.
func AmountFromBig(v *big.Int) (Amount, error) {
	var a Amount
	if v == nil || v.Sign() < 0 {
		return a, fmt.Errorf("%w: negative or missing value", errInvalidAmount)
	}
	if overflow := a.SetFromBig(v); overflow {
		return a, fmt.Errorf("%w: value overflows 256 bits", errInvalidAmount)
	}
	return a, nil
}

// Dec renders the amount as a decimal string. The value receiver keeps it
// callable on unaddressable results such as Obligation's.
func (a Amount) Dec() string {
	return a.Int.Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.Dec())), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if err := a.SetFromDecimal(s); err != nil {
		return fmt.Errorf("%w: %q is not a decimal amount", errInvalidAmount, s)
	}
	return nil
}

// Obligation returns principal + principal*rate/100 with integer division,
// the repayment owed for [principal] borrowed at [rate] percent.
func Obligation(principal, rate *Amount) Amount {
	var interest uint256.Int
	interest.Mul(&principal.Int, &rate.Int)
	interest.Div(&interest, uint256.NewInt(100))

	var total Amount
	total.Add(&principal.Int, &interest)
	return total
}
