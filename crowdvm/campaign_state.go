// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
)

var _ CampaignState = (*campaignState)(nil)

// CampaignState stores both offering kinds in one keyspace; every lookup
// that matters to routing filters on kind so the two families never observe
// each other.
type CampaignState interface {
	AddCampaign(campaign *Campaign) (uint64, error)
	PutCampaign(campaign *Campaign) error
	GetCampaign(kind CampaignKind, id uint64) (*Campaign, error)
	GetCampaignByID(id uint64) (*Campaign, error)
	ListCampaigns(kind CampaignKind) ([]*Campaign, error)
	ListCampaignsByCreator(kind CampaignKind, creatorID uint64) ([]*Campaign, error)
}

type campaignState struct {
	campaignDB database.Database
	counters   *counterState
}

func NewCampaignState(campaignDB database.Database, counters *counterState) CampaignState {
	return &campaignState{
		campaignDB: campaignDB,
		counters:   counters,
	}
}

func (s *campaignState) AddCampaign(campaign *Campaign) (uint64, error) {
	id, err := s.counters.next(campaignStatePrefix)
	if err != nil {
		return 0, err
	}
	campaign.Id = id
	return id, s.PutCampaign(campaign)
}

func (s *campaignState) PutCampaign(campaign *Campaign) error {
	raw, err := json.Marshal(campaign)
	if err != nil {
		return err
	}
	return s.campaignDB.Put(packUint64(campaign.Id), raw)
}

func (s *campaignState) GetCampaign(kind CampaignKind, id uint64) (*Campaign, error) {
	campaign, err := s.GetCampaignByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	if campaign.Kind != kind {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return campaign, nil
}

// GetCampaignByID looks up an offering without a kind filter. Orders hold
// only the id, which is unambiguous because both kinds share one id space.
func (s *campaignState) GetCampaignByID(id uint64) (*Campaign, error) {
	raw, err := s.campaignDB.Get(packUint64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: campaign %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	campaign := &Campaign{}
	if err := json.Unmarshal(raw, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *campaignState) ListCampaigns(kind CampaignKind) ([]*Campaign, error) {
	return s.list(func(c *Campaign) bool { return c.Kind == kind })
}

func (s *campaignState) ListCampaignsByCreator(kind CampaignKind, creatorID uint64) ([]*Campaign, error) {
	return s.list(func(c *Campaign) bool {
		return c.Kind == kind && c.CreatorId == creatorID
	})
}

func (s *campaignState) list(keep func(*Campaign) bool) ([]*Campaign, error) {
	it := s.campaignDB.NewIterator()
	defer it.Release()

	campaigns := []*Campaign{}
	for it.Next() {
		campaign := &Campaign{}
		if err := json.Unmarshal(it.Value(), campaign); err != nil {
			return nil, err
		}
		if keep(campaign) {
			campaigns = append(campaigns, campaign)
		}
	}
	return campaigns, it.Error()
}
