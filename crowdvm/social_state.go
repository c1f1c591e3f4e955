// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
)

var _ SocialState = (*socialState)(nil)

type SocialState interface {
	AddSocialAccount(account *SocialAccount) (uint64, error)
	GetSocialAccount(id uint64) (*SocialAccount, error)
	ListSocialAccountsByUser(userID uint64) ([]*SocialAccount, error)
	DeleteSocialAccount(id uint64) error
}

type socialState struct {
	socialDB database.Database
	counters *counterState
}

func NewSocialState(socialDB database.Database, counters *counterState) SocialState {
	return &socialState{
		socialDB: socialDB,
		counters: counters,
	}
}

func (s *socialState) AddSocialAccount(account *SocialAccount) (uint64, error) {
	id, err := s.counters.next(socialStatePrefix)
	if err != nil {
		return 0, err
	}
	account.Id = id

	raw, err := json.Marshal(account)
	if err != nil {
		return 0, err
	}
	return id, s.socialDB.Put(packUint64(id), raw)
}

func (s *socialState) GetSocialAccount(id uint64) (*SocialAccount, error) {
	raw, err := s.socialDB.Get(packUint64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: social account %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	account := &SocialAccount{}
	if err := json.Unmarshal(raw, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *socialState) ListSocialAccountsByUser(userID uint64) ([]*SocialAccount, error) {
	it := s.socialDB.NewIterator()
	defer it.Release()

	accounts := []*SocialAccount{}
	for it.Next() {
		account := &SocialAccount{}
		if err := json.Unmarshal(it.Value(), account); err != nil {
			return nil, err
		}
		if account.UserId == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, it.Error()
}

func (s *socialState) DeleteSocialAccount(id uint64) error {
	has, err := s.socialDB.Has(packUint64(id))
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: social account %d", ErrNotFound, id)
	}
	return s.socialDB.Delete(packUint64(id))
}
