// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
)

var _ UserState = (*userState)(nil)

type UserState interface {
	AddUser(user *User) (uint64, error)
	PutUser(user *User) error
	GetUser(id uint64) (*User, error)
	GetUserByAddress(addr common.Address) (*User, error)
	ListUsers() ([]*User, error)
	DeleteUser(id uint64) error
}

type userState struct {
	userDB   database.Database
	indexDB  database.Database // address -> id
	counters *counterState
}

func NewUserState(userDB, indexDB database.Database, counters *counterState) UserState {
	return &userState{
		userDB:   userDB,
		indexDB:  indexDB,
		counters: counters,
	}
}

// AddUser assigns the next user id and persists the user. One address maps
// to at most one user.
func (s *userState) AddUser(user *User) (uint64, error) {
	has, err := s.indexDB.Has(user.Address[:])
	if err != nil {
		return 0, err
	}
	if has {
		return 0, fmt.Errorf("%w: address %s already registered", ErrInvalidRequest, user.Address)
	}

	id, err := s.counters.next(userStatePrefix)
	if err != nil {
		return 0, err
	}
	user.Id = id
	return id, s.PutUser(user)
}

func (s *userState) PutUser(user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.userDB.Put(packUint64(user.Id), raw); err != nil {
		return err
	}
	return s.indexDB.Put(user.Address[:], packUint64(user.Id))
}

func (s *userState) GetUser(id uint64) (*User, error) {
	raw, err := s.userDB.Get(packUint64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	user := &User{}
	if err := json.Unmarshal(raw, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userState) GetUserByAddress(addr common.Address) (*User, error) {
	raw, err := s.indexDB.Get(addr[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user with address %s", ErrNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return s.GetUser(unpackUint64(raw))
}

// ListUsers returns every user in ascending id order. Ids are stored as
// big-endian keys, so iterator order is insertion order.
func (s *userState) ListUsers() ([]*User, error) {
	it := s.userDB.NewIterator()
	defer it.Release()

	users := []*User{}
	for it.Next() {
		user := &User{}
		if err := json.Unmarshal(it.Value(), user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, it.Error()
}

func (s *userState) DeleteUser(id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if err := s.indexDB.Delete(user.Address[:]); err != nil {
		return err
	}
	return s.userDB.Delete(packUint64(id))
}
