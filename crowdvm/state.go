// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	userStatePrefix      = []byte("user")
	userIndexPrefix      = []byte("userAddr")
	socialStatePrefix    = []byte("social")
	campaignStatePrefix  = []byte("campaign")
	orderStatePrefix     = []byte("order")
	balanceStatePrefix   = []byte("balance")
	counterStatePrefix   = []byte("counter")

	_ State = (*state)(nil)
)

// State is the ledger: one prefixed sub-store per entity kind plus balance
// accounting, all layered over a single versiondb so that an advance either
// commits in full or leaves no trace.
type State interface {
	UserState
	SocialState
	CampaignState
	OrderState
	BalanceState

	// Genesis marker. The engine seeds the admin and verifier exactly once.
	IsInitialized() (bool, error)
	SetInitialized() error

	Commit() error
	Abort()
	Close() error
}

type state struct {
	UserState
	SocialState
	CampaignState
	OrderState
	BalanceState

	singletonDB database.Database
	baseDB      *versiondb.Database
}

func NewState(db database.Database) State {
	baseDB := versiondb.New(db)

	counters := newCounterState(prefixdb.New(counterStatePrefix, baseDB))

	return &state{
		singletonDB: prefixdb.New(singletonStatePrefix, baseDB),
		UserState: NewUserState(
			prefixdb.New(userStatePrefix, baseDB),
			prefixdb.New(userIndexPrefix, baseDB),
			counters,
		),
		SocialState:   NewSocialState(prefixdb.New(socialStatePrefix, baseDB), counters),
		CampaignState: NewCampaignState(prefixdb.New(campaignStatePrefix, baseDB), counters),
		OrderState:    NewOrderState(prefixdb.New(orderStatePrefix, baseDB), counters),
		BalanceState:  NewBalanceState(prefixdb.New(balanceStatePrefix, baseDB)),
		baseDB:        baseDB,
	}
}

var genesisKey = []byte("genesis")

func (s *state) IsInitialized() (bool, error) {
	return s.singletonDB.Has(genesisKey)
}

func (s *state) SetInitialized() error {
	return s.singletonDB.Put(genesisKey, nil)
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort drops pending operations.
func (s *state) Abort() {
	s.baseDB.Abort()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}

// counterState hands out the per-entity-kind monotonic ids. Each keyspace
// is independent and starts at 1.
type counterState struct {
	db database.Database
}

func newCounterState(db database.Database) *counterState {
	return &counterState{db: db}
}

func (c *counterState) next(kind []byte) (uint64, error) {
	next := uint64(1)
	raw, err := c.db.Get(kind)
	switch {
	case err == nil:
		next = binary.BigEndian.Uint64(raw)
	case err != database.ErrNotFound:
		return 0, err
	}

	if err := c.db.Put(kind, packUint64(next+1)); err != nil {
		return 0, err
	}
	return next, nil
}

func packUint64(v uint64) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func unpackUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
