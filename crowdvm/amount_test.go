// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountJSONIsDecimal(t *testing.T) {
	assert := assert.New(t)

	raw, err := json.Marshal(NewAmount(76300))
	assert.NoError(err)
	assert.Equal(`"76300"`, string(raw))

	// Dec works on unaddressable values such as function results.
	assert.Equal("76300", NewAmount(76300).Dec())

	var parsed Amount
	assert.NoError(json.Unmarshal([]byte(`"100000"`), &parsed))
	assert.Equal("100000", parsed.Dec())

	assert.Error(json.Unmarshal([]byte(`"0x10"`), &parsed))
}

func TestAmountFromBig(t *testing.T) {
	assert := assert.New(t)

	a, err := AmountFromBig(big.NewInt(42))
	assert.NoError(err)
	assert.Equal("42", a.Dec())

	_, err = AmountFromBig(big.NewInt(-1))
	assert.Error(err)

	_, err = AmountFromBig(nil)
	assert.Error(err)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = AmountFromBig(tooBig)
	assert.Error(err)
}

func TestObligation(t *testing.T) {
	assert := assert.New(t)

	principal := NewAmount(70000)
	rate := NewAmount(9)
	assert.Equal("76300", Obligation(&principal, &rate).Dec())

	// Integer division drops sub-unit interest.
	principal = NewAmount(99)
	rate = NewAmount(1)
	assert.Equal("99", Obligation(&principal, &rate).Dec())

	principal = NewAmount(50000)
	rate = NewAmount(10)
	assert.Equal("55000", Obligation(&principal, &rate).Dec())
}
