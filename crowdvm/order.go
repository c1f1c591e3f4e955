// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import "fmt"

type OrderStatus string

// pending -> {accepted | cancelled}; accepted -> {settled |
// settled_by_collateral}. Everything else is terminal.
const (
	OrderPending             OrderStatus = "pending"
	OrderAccepted            OrderStatus = "accepted"
	OrderCancelled           OrderStatus = "cancelled"
	OrderSettled             OrderStatus = "settled"
	OrderSettledByCollateral OrderStatus = "settled_by_collateral"
)

type Order struct {
	Id           uint64      `json:"id"`
	CampaignId   uint64      `json:"campaign_id"`
	InvestorId   uint64      `json:"investor_id"`
	Amount       Amount      `json:"amount"`
	InterestRate Amount      `json:"interest_rate"`
	State        OrderStatus `json:"state"`
	CreatedAt    int64       `json:"created_at"`
	UpdatedAt    int64       `json:"updated_at"`
}

func NewOrder(campaignID, investorID uint64, amount, interestRate Amount, createdAt int64) (*Order, error) {
	order := &Order{
		CampaignId:   campaignID,
		InvestorId:   investorID,
		Amount:       amount,
		InterestRate: interestRate,
		State:        OrderPending,
		CreatedAt:    createdAt,
	}
	if err := order.validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Order) validate() error {
	if o.CampaignId == 0 {
		return fmt.Errorf("%w: campaign id cannot be zero", ErrInvalidRequest)
	}
	if o.InvestorId == 0 {
		return fmt.Errorf("%w: investor id cannot be zero", ErrInvalidRequest)
	}
	if o.Amount.IsZero() {
		return fmt.Errorf("%w: amount cannot be zero", ErrInvalidRequest)
	}
	if o.InterestRate.IsZero() {
		return fmt.Errorf("%w: interest rate cannot be zero", ErrInvalidRequest)
	}
	return nil
}

// Obligation is what the creator owes the investor if this order wins:
// principal plus simple interest.
func (o *Order) Obligation() Amount {
	return Obligation(&o.Amount, &o.InterestRate)
}
