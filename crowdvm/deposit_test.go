// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepositEnvelope(t *testing.T) {
	assert := assert.New(t)

	inner := []byte(`{"path":"order/create","data":{"campaign_id":1,"interest_rate":"9"}}`)
	payload, err := EncodeDeposit(&ERC20Deposit{
		Token:  quoteToken,
		Sender: investorAddr,
		Amount: NewAmount(70000),
	}, inner)
	assert.NoError(err)

	deposit, got, err := DecodeDeposit(payload)
	assert.NoError(err)
	assert.Equal(quoteToken, deposit.Token)
	assert.Equal(investorAddr, deposit.Sender)
	assert.Equal("70000", deposit.Amount.Dec())
	assert.Equal(inner, got)
}

func TestDecodeDepositRejectsGarbage(t *testing.T) {
	assert := assert.New(t)

	_, _, err := DecodeDeposit([]byte("not an abi payload"))
	assert.ErrorIs(err, ErrInvalidRequest)

	_, _, err = DecodeDeposit(nil)
	assert.ErrorIs(err, ErrInvalidRequest)
}
