// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// CampaignKind distinguishes the two offering families. They share one
// entity, one id space and identical lifecycle rules; only the route family
// and the notice verb differ.
type CampaignKind string

const (
	KindCampaign CampaignKind = "campaign"
	KindIssuance CampaignKind = "issuance"
)

type CampaignStatus string

// State only ever moves forward:
// ongoing -> closed -> {collateral_executed | settled}.
const (
	CampaignOngoing            CampaignStatus = "ongoing"
	CampaignClosed             CampaignStatus = "closed"
	CampaignCollateralExecuted CampaignStatus = "collateral_executed"
	CampaignSettled            CampaignStatus = "settled"
)

// A campaign may stay open for at most 180 days.
const maxCampaignWindow = 180 * 24 * 60 * 60

type Campaign struct {
	Id               uint64         `json:"id"`
	Kind             CampaignKind   `json:"kind"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Promotion        string         `json:"promotion"`
	Token            common.Address `json:"token"`
	CreatorId        uint64         `json:"creator_id"`
	Collateral       common.Address `json:"collateral"`
	CollateralAmount Amount         `json:"collateral_amount"`
	BadgeAddress     common.Address `json:"badge_address"`
	MaxInterestRate  Amount         `json:"max_interest_rate"`
	DebtIssued       Amount         `json:"debt_issued"`
	TotalObligation  Amount         `json:"total_obligation"`
	TotalRaised      Amount         `json:"total_raised"`
	OrderIds         []uint64       `json:"order_ids"`
	State            CampaignStatus `json:"state"`
	CreatedAt        int64          `json:"created_at"`
	UpdatedAt        int64          `json:"updated_at"`
	ClosesAt         int64          `json:"closes_at"`
	MaturityAt       int64          `json:"maturity_at"`
}

func NewCampaign(
	kind CampaignKind,
	title, description, promotion string,
	token common.Address,
	creatorID uint64,
	collateral common.Address,
	collateralAmount Amount,
	badgeAddress common.Address,
	maxInterestRate Amount,
	debtIssued Amount,
	closesAt, maturityAt, createdAt int64,
) (*Campaign, error) {
	campaign := &Campaign{
		Kind:             kind,
		Title:            title,
		Description:      description,
		Promotion:        promotion,
		Token:            token,
		CreatorId:        creatorID,
		Collateral:       collateral,
		CollateralAmount: collateralAmount,
		BadgeAddress:     badgeAddress,
		MaxInterestRate:  maxInterestRate,
		DebtIssued:       debtIssued,
		OrderIds:         []uint64{},
		State:            CampaignOngoing,
		CreatedAt:        createdAt,
		ClosesAt:         closesAt,
		MaturityAt:       maturityAt,
	}
	if err := campaign.validate(); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (c *Campaign) validate() error {
	if c.Kind != KindCampaign && c.Kind != KindIssuance {
		return fmt.Errorf("%w: unknown offering kind %q", ErrInvalidRequest, c.Kind)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidRequest)
	}
	if c.Description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidRequest)
	}
	if c.Promotion == "" {
		return fmt.Errorf("%w: promotion cannot be empty", ErrInvalidRequest)
	}
	if c.Token == (common.Address{}) {
		return fmt.Errorf("%w: invalid token address", ErrInvalidRequest)
	}
	if c.CreatorId == 0 {
		return fmt.Errorf("%w: creator id cannot be zero", ErrInvalidRequest)
	}
	if c.Collateral == (common.Address{}) {
		return fmt.Errorf("%w: invalid collateral address", ErrInvalidRequest)
	}
	if c.CollateralAmount.IsZero() {
		return fmt.Errorf("%w: collateral amount cannot be zero", ErrInvalidRequest)
	}
	if c.DebtIssued.IsZero() {
		return fmt.Errorf("%w: debt issued cannot be zero", ErrInvalidRequest)
	}
	if c.MaxInterestRate.IsZero() {
		return fmt.Errorf("%w: max interest rate cannot be zero", ErrInvalidRequest)
	}
	if c.ClosesAt == 0 || c.MaturityAt == 0 {
		return fmt.Errorf("%w: close and maturity dates are required", ErrInvalidRequest)
	}
	if c.ClosesAt > c.MaturityAt {
		return fmt.Errorf("%w: close date cannot be after maturity date", ErrInvalidRequest)
	}
	if c.CreatedAt >= c.ClosesAt {
		return fmt.Errorf("%w: close date must be in the future", ErrInvalidRequest)
	}
	if c.ClosesAt > c.CreatedAt+maxCampaignWindow {
		return fmt.Errorf("%w: close date cannot be more than 180 days out", ErrInvalidRequest)
	}
	return nil
}

// terminal reports whether the campaign can no longer change state.
func (c *Campaign) terminal() bool {
	return c.State == CampaignSettled || c.State == CampaignCollateralExecuted
}
