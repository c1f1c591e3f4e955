// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"

	log "github.com/inconshreveable/log15"
)

const Name = "crowdvm"

// Engine is the deterministic state machine. The surrounding node feeds it
// ordered advance inputs and read-only inspect queries; replaying the same
// inputs against a fresh database reproduces the ledger and every output
// byte for byte.
type Engine struct {
	mu    sync.RWMutex
	cfg   Config
	state State
}

// New opens the ledger over [db] and seeds the genesis users on first use.
func New(cfg Config, db database.Database) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:   cfg,
		state: NewState(db),
	}
	if err := e.initGenesis(); err != nil {
		e.state.Abort()
		return nil, err
	}
	return e, nil
}

func (e *Engine) initGenesis() error {
	initialized, err := e.state.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	admin, err := NewUser(e.cfg.Admin, UserRoleAdmin, 0)
	if err != nil {
		return err
	}
	if _, err := e.state.AddUser(admin); err != nil {
		return err
	}
	verifier, err := NewUser(e.cfg.Verifier, UserRoleVerifier, 0)
	if err != nil {
		return err
	}
	if _, err := e.state.AddUser(verifier); err != nil {
		return err
	}

	if err := e.state.SetInitialized(); err != nil {
		return err
	}
	if err := e.state.Commit(); err != nil {
		return err
	}

	log.Info("genesis ledger initialized", "admin", admin.Address, "verifier", verifier.Address)
	return nil
}

// Advance applies one input. Either the whole input commits, with its
// outputs returned in emission order, or nothing does.
func (e *Engine) Advance(meta Metadata, payload []byte) ([]Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.state.Abort()

	deposit, inner, err := e.decodeInput(meta, payload)
	if err != nil {
		return nil, err
	}

	req, err := parseRequest(inner)
	if err != nil {
		return nil, err
	}
	route, ok := advanceRoutes[req.Path]
	if !ok {
		return nil, fmt.Errorf("%w: unknown path %q", ErrInvalidRequest, req.Path)
	}

	env := newEnv(meta, deposit)
	if err := e.authorize(env, route.roles); err != nil {
		return nil, err
	}

	if err := route.handler(e, env, e.state, req.Data); err != nil {
		log.Debug("advance rejected", "path", req.Path, "index", meta.Index, "err", err)
		return nil, err
	}

	// A deposit the handler did not claim stays the depositor's money. It is
	// credited to their withdrawable balance so no escrowed funds become
	// unreachable.
	if unclaimed := env.unclaimedDeposit(); unclaimed != nil {
		if err := e.state.Credit(unclaimed.Sender, unclaimed.Token, &unclaimed.Amount); err != nil {
			return nil, err
		}
	}

	if err := e.state.Commit(); err != nil {
		return nil, err
	}
	log.Info("advance applied", "path", req.Path, "index", meta.Index, "outputs", len(env.outputs))
	return env.outputs, nil
}

// Inspect answers a read-only query against the snapshot left by the most
// recent advance. The returned bytes are the report payload.
func (e *Engine) Inspect(payload []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	req, err := parseRequest(payload)
	if err != nil {
		return nil, err
	}
	handler, ok := inspectRoutes[req.Path]
	if !ok {
		return nil, fmt.Errorf("%w: unknown path %q", ErrInvalidRequest, req.Path)
	}

	view, err := handler(e, e.state, req.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(view)
}

// decodeInput unwraps the portal envelope when the raw sender is the ERC20
// portal; any other sender's payload is the command itself.
func (e *Engine) decodeInput(meta Metadata, payload []byte) (*ERC20Deposit, []byte, error) {
	if meta.MsgSender != e.cfg.ERC20Portal {
		return nil, payload, nil
	}
	return DecodeDeposit(payload)
}

// authorize resolves the sender to a user and checks the route's role gate.
// Routes with an empty role set skip resolution; their handlers look the
// sender up themselves when ownership matters.
func (e *Engine) authorize(env *Env, roles []UserRole) error {
	if len(roles) == 0 {
		return nil
	}

	user, err := e.state.GetUserByAddress(env.Sender())
	if err != nil {
		return fmt.Errorf("%w: sender %s is not a registered user", ErrUnauthorized, env.Sender())
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s cannot perform this operation", ErrUnauthorized, user.Role)
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Close()
}
