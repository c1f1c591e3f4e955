// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleVerifier UserRole = "verifier"
	UserRoleCreator  UserRole = "creator"
	UserRoleInvestor UserRole = "investor"
)

// Genesis seeds users 1 and 2; every other user is created by the admin.
const (
	GenesisAdminID    uint64 = 1
	GenesisVerifierID uint64 = 2
)

type User struct {
	Id               uint64         `json:"id"`
	Address          common.Address `json:"address"`
	Role             UserRole       `json:"role"`
	SocialAccountIds []uint64       `json:"social_account_ids"`
	CreatedAt        int64          `json:"created_at"`
	UpdatedAt        int64          `json:"updated_at"`
}

func NewUser(address common.Address, role UserRole, createdAt int64) (*User, error) {
	user := &User{
		Address:          address,
		Role:             role,
		SocialAccountIds: []uint64{},
		CreatedAt:        createdAt,
	}
	if err := user.validate(); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *User) validate() error {
	if u.Address == (common.Address{}) {
		return fmt.Errorf("%w: address cannot be empty", ErrInvalidRequest)
	}
	switch u.Role {
	case UserRoleAdmin, UserRoleVerifier, UserRoleCreator, UserRoleInvestor:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, u.Role)
	}
	return nil
}

func (u *User) removeSocialAccount(id uint64) {
	ids := u.SocialAccountIds[:0]
	for _, existing := range u.SocialAccountIds {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	u.SocialAccountIds = ids
}
