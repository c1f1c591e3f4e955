// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Certificate token ids minted on a campaign's badge collection.
const (
	BondCertificateID      = 1
	DischargeCertificateID = 2
)

var (
	badgeFactoryABI = mustParseABI(`[{
		"type": "function",
		"name": "newBadge",
		"inputs": [
			{"type": "address"},
			{"type": "bytes32"}
		]
	}]`)

	safeMintABI = mustParseABI(`[{
		"type": "function",
		"name": "safeMint",
		"inputs": [
			{"type": "address"},
			{"type": "address"},
			{"type": "uint256"},
			{"type": "uint256"},
			{"type": "bytes"}
		]
	}]`)

	erc20ABI = mustParseABI(`[{
		"type": "function",
		"name": "transfer",
		"inputs": [
			{"type": "address"},
			{"type": "uint256"}
		]
	}]`)

	emergencyABI = mustParseABI(`[{
		"type": "function",
		"name": "emergencyERC20Withdraw",
		"inputs": [
			{"type": "address"},
			{"type": "address"},
			{"type": "address"}
		]
	}, {
		"type": "function",
		"name": "emergencyETHWithdraw",
		"inputs": [
			{"type": "address"},
			{"type": "address"}
		]
	}]`)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// BadgeSalt is the zero-padded index of the advance input that created the
// campaign.
func BadgeSalt(index uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(index))
}

// BadgeAddress derives the campaign's badge collection address:
// CREATE2(factory, salt, keccak(bytecode ++ abi.encode(application))).
// Any observer holding the factory address and bytecode can recompute it.
func BadgeAddress(factory, application common.Address, index uint64, bytecode []byte) common.Address {
	initCode := make([]byte, 0, len(bytecode)+common.HashLength)
	initCode = append(initCode, bytecode...)
	initCode = append(initCode, common.LeftPadBytes(application[:], common.HashLength)...)
	return crypto.CreateAddress2(factory, BadgeSalt(index), crypto.Keccak256(initCode))
}

func newBadgePayload(application common.Address, index uint64) ([]byte, error) {
	return badgeFactoryABI.Pack("newBadge", application, BadgeSalt(index))
}

func safeMintPayload(badge, to common.Address, tokenID uint64) ([]byte, error) {
	return safeMintABI.Pack(
		"safeMint",
		badge,
		to,
		new(big.Int).SetUint64(tokenID),
		big.NewInt(1),
		[]byte{},
	)
}

func erc20TransferPayload(to common.Address, amount *Amount) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount.ToBig())
}

func emergencyERC20Payload(to, sender, token common.Address) ([]byte, error) {
	return emergencyABI.Pack("emergencyERC20Withdraw", to, sender, token)
}

func emergencyEtherPayload(to, sender common.Address) ([]byte, error) {
	return emergencyABI.Pack("emergencyETHWithdraw", to, sender)
}
