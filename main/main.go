// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/ava-labs/avalanchego/database/memdb"

	log "github.com/inconshreveable/log15"

	"github.com/crowdvm/crowdvm/crowdvm"
)

const version = "1.0.0"

func main() {
	v, err := getViper()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	if v.GetBool(versionKey) {
		fmt.Printf("%s@%s\n", crowdvm.Name, version)
		os.Exit(0)
	}

	cfg, err := buildConfig(v)
	if err != nil {
		fmt.Printf("couldn't build config: %s\n", err)
		os.Exit(1)
	}

	// The ledger is reconstructable by replaying inputs, so an in-memory
	// database is enough; the host persists the input log.
	engine, err := crowdvm.New(cfg, memdb.New())
	if err != nil {
		log.Error("error initializing crowdvm engine", "err", err)
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	handler, err := crowdvm.NewHandler(engine)
	if err != nil {
		log.Error("error creating API handler", "err", err)
		os.Exit(1)
	}

	addr := v.GetString(httpAddrKey)
	log.Info("serving crowdvm API", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server returned an error", "err", err)
		os.Exit(1)
	}
}
