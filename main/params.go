// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/crowdvm/crowdvm/crowdvm"
)

const (
	versionKey  = "version"
	httpAddrKey = "http-addr"

	erc20PortalKey       = "erc20-portal"
	badgeFactoryKey      = "badge-factory"
	safeMintKey          = "safe-mint"
	emergencyWithdrawKey = "emergency-withdraw"
	badgeBytecodeKey     = "badge-bytecode"
	adminKey             = "admin"
	verifierKey          = "verifier"
	platformFeeBpsKey    = "platform-fee-bps"
	closePolicyKey       = "close-policy"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("crowdvm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quits")
	fs.String(httpAddrKey, ":8545", "Address the JSON-RPC server listens on")

	fs.String(erc20PortalKey, "", "Address of the ERC20 portal contract")
	fs.String(badgeFactoryKey, "", "Address of the badge factory contract")
	fs.String(safeMintKey, "", "Address of the certificate minting contract")
	fs.String(emergencyWithdrawKey, "", "Address of the emergency withdrawal contract")
	fs.String(badgeBytecodeKey, "", "Hex-encoded creation code of the badge contract")
	fs.String(adminKey, "", "Address of the genesis admin user")
	fs.String(verifierKey, "", "Address of the genesis verifier user")
	fs.Uint64(platformFeeBpsKey, 0, "Platform fee on raised funds, in basis points")
	fs.String(closePolicyKey, "", "Policy for losing orders at close: refund or carry")

	return fs
}

// getViper returns the viper environment for the node binary
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

func buildConfig(v *viper.Viper) (crowdvm.Config, error) {
	bytecode, err := hex.DecodeString(strings.TrimPrefix(v.GetString(badgeBytecodeKey), "0x"))
	if err != nil {
		return crowdvm.Config{}, fmt.Errorf("failed to decode badge bytecode: %w", err)
	}

	return crowdvm.Config{
		ERC20Portal:       common.HexToAddress(v.GetString(erc20PortalKey)),
		BadgeFactory:      common.HexToAddress(v.GetString(badgeFactoryKey)),
		SafeMint:          common.HexToAddress(v.GetString(safeMintKey)),
		EmergencyWithdraw: common.HexToAddress(v.GetString(emergencyWithdrawKey)),
		BadgeBytecode:     bytecode,
		Admin:             common.HexToAddress(v.GetString(adminKey)),
		Verifier:          common.HexToAddress(v.GetString(verifierKey)),
		PlatformFeeBps:    v.GetUint64(platformFeeBpsKey),
		ClosePolicy:       crowdvm.ClosePolicy(v.GetString(closePolicyKey)),
	}, nil
}
