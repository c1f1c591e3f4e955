// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import "fmt"

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
)

// SocialAccount is a verifier-attested link between a user and an off-chain
// identity. Owned by exactly one user; a user may hold any number.
type SocialAccount struct {
	Id        uint64   `json:"id"`
	UserId    uint64   `json:"user_id"`
	Username  string   `json:"username"`
	Platform  Platform `json:"platform"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

func NewSocialAccount(userID uint64, username string, platform Platform, createdAt int64) (*SocialAccount, error) {
	account := &SocialAccount{
		UserId:    userID,
		Username:  username,
		Platform:  platform,
		CreatedAt: createdAt,
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *SocialAccount) validate() error {
	if s.UserId == 0 {
		return fmt.Errorf("%w: user id cannot be zero", ErrInvalidRequest)
	}
	if s.Username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidRequest)
	}
	if s.Platform != PlatformTwitter && s.Platform != PlatformInstagram {
		return fmt.Errorf("%w: platform must be %q or %q", ErrInvalidRequest, PlatformTwitter, PlatformInstagram)
	}
	return nil
}
