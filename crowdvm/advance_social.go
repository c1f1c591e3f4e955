// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
)

type createSocialAccountArgs struct {
	UserId   uint64   `json:"user_id"`
	Username string   `json:"username"`
	Platform Platform `json:"platform"`
}

func (e *Engine) createSocialAccount(env *Env, state State, data json.RawMessage) error {
	args := createSocialAccountArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	owner, err := state.GetUser(args.UserId)
	if err != nil {
		return err
	}

	account, err := NewSocialAccount(owner.Id, args.Username, args.Platform, env.Timestamp())
	if err != nil {
		return err
	}
	id, err := state.AddSocialAccount(account)
	if err != nil {
		return err
	}

	owner.SocialAccountIds = append(owner.SocialAccountIds, id)
	owner.UpdatedAt = env.Timestamp()
	if err := state.PutUser(owner); err != nil {
		return err
	}
	return env.Notice("social account created", account)
}

type deleteSocialAccountArgs struct {
	SocialAccountId uint64 `json:"social_account_id"`
}

func (e *Engine) deleteSocialAccount(env *Env, state State, data json.RawMessage) error {
	args := deleteSocialAccountArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	account, err := state.GetSocialAccount(args.SocialAccountId)
	if err != nil {
		return err
	}
	if err := state.DeleteSocialAccount(account.Id); err != nil {
		return err
	}

	// The owner may already be gone; deletions do not cascade either way.
	if owner, err := state.GetUser(account.UserId); err == nil {
		owner.removeSocialAccount(account.Id)
		owner.UpdatedAt = env.Timestamp()
		if err := state.PutUser(owner); err != nil {
			return err
		}
	}
	return env.Notice("social account deleted", account)
}
