// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
)

type createOrderArgs struct {
	CampaignId   uint64 `json:"campaign_id"`
	InterestRate Amount `json:"interest_rate"`
}

// createOrder places a bid. The deposited amount is the principal and stays
// escrowed until the campaign closes or the order is cancelled.
func (e *Engine) createOrder(env *Env, state State, data json.RawMessage) error {
	deposit, err := env.Deposit()
	if err != nil {
		return err
	}

	args := createOrderArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	investor, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	campaign, err := state.GetCampaignByID(args.CampaignId)
	if err != nil {
		return err
	}
	if campaign.State != CampaignOngoing {
		return fmt.Errorf("%w: %s %d is %s, expected %s", ErrState, campaign.Kind, campaign.Id, campaign.State, CampaignOngoing)
	}
	if env.Timestamp() >= campaign.ClosesAt {
		return fmt.Errorf("%w: %s %d is past its close date", ErrState, campaign.Kind, campaign.Id)
	}
	if deposit.Token != campaign.Token {
		return fmt.Errorf("%w: orders must deposit token %s", ErrInvalidRequest, campaign.Token)
	}
	if args.InterestRate.Gt(&campaign.MaxInterestRate.Int) {
		return fmt.Errorf(
			"%w: interest rate %s above maximum %s",
			ErrInvalidRequest, args.InterestRate.Dec(), campaign.MaxInterestRate.Dec(),
		)
	}

	order, err := NewOrder(campaign.Id, investor.Id, deposit.Amount, args.InterestRate, env.Timestamp())
	if err != nil {
		return err
	}
	id, err := state.AddOrder(order)
	if err != nil {
		return err
	}

	campaign.OrderIds = append(campaign.OrderIds, id)
	campaign.UpdatedAt = env.Timestamp()
	if err := state.PutCampaign(campaign); err != nil {
		return err
	}

	return env.Notice("order created", orderView(order, investor))
}

type cancelOrderArgs struct {
	Id uint64 `json:"id"`
}

// cancelOrder withdraws a pending bid and releases the escrowed principal
// back to the investor's balance.
func (e *Engine) cancelOrder(env *Env, state State, data json.RawMessage) error {
	args := cancelOrderArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	order, err := state.GetOrder(args.Id)
	if err != nil {
		return err
	}
	investor, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	if order.InvestorId != investor.Id {
		return fmt.Errorf("%w: order %d belongs to another investor", ErrUnauthorized, order.Id)
	}
	if order.State != OrderPending {
		return fmt.Errorf("%w: order %d is %s, expected %s", ErrState, order.Id, order.State, OrderPending)
	}

	campaign, err := state.GetCampaignByID(order.CampaignId)
	if err != nil {
		return err
	}

	order.State = OrderCancelled
	order.UpdatedAt = env.Timestamp()
	if err := state.PutOrder(order); err != nil {
		return err
	}
	if err := state.Credit(investor.Address, campaign.Token, &order.Amount); err != nil {
		return err
	}

	return env.Notice("order canceled", orderView(order, investor))
}
