// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Inspect queries are read transactions over the snapshot left by the most
// recent advance. Handlers return a view; the engine marshals it into the
// report payload, so identical queries always yield identical bytes.

func unmarshalQuery(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing query data", ErrInvalidRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	return nil
}

func (e *Engine) listUsers(state State, _ json.RawMessage) (interface{}, error) {
	return state.ListUsers()
}

type addressQuery struct {
	Address common.Address `json:"address"`
}

func (e *Engine) getUserByAddress(state State, data json.RawMessage) (interface{}, error) {
	q := addressQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	return state.GetUserByAddress(q.Address)
}

type balanceQuery struct {
	Address common.Address `json:"address"`
	Token   common.Address `json:"token"`
}

func (e *Engine) getBalance(state State, data json.RawMessage) (interface{}, error) {
	q := balanceQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	balance, err := state.Balance(q.Address, q.Token)
	if err != nil {
		return nil, err
	}
	return &BalanceView{
		Owner:   strings.ToLower(q.Address.Hex()),
		Token:   strings.ToLower(q.Token.Hex()),
		Balance: balance,
	}, nil
}

type idQuery struct {
	Id uint64 `json:"id"`
}

func (e *Engine) getSocialAccount(state State, data json.RawMessage) (interface{}, error) {
	q := idQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	return state.GetSocialAccount(q.Id)
}

type userIdQuery struct {
	UserId uint64 `json:"user_id"`
}

func (e *Engine) listSocialAccountsByUser(state State, data json.RawMessage) (interface{}, error) {
	q := userIdQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	return state.ListSocialAccountsByUser(q.UserId)
}

func (e *Engine) listCampaigns(state State, kind CampaignKind, _ json.RawMessage) (interface{}, error) {
	campaigns, err := state.ListCampaigns(kind)
	if err != nil {
		return nil, err
	}
	return e.campaignViews(state, campaigns)
}

func (e *Engine) getCampaign(state State, kind CampaignKind, data json.RawMessage) (interface{}, error) {
	q := idQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	campaign, err := state.GetCampaign(kind, q.Id)
	if err != nil {
		return nil, err
	}
	return e.campaignView(state, campaign)
}

type creatorQuery struct {
	CreatorAddress common.Address `json:"creator_address"`
}

func (e *Engine) listCampaignsByCreator(state State, kind CampaignKind, data json.RawMessage) (interface{}, error) {
	q := creatorQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	creator, err := state.GetUserByAddress(q.CreatorAddress)
	if err != nil {
		return nil, err
	}
	campaigns, err := state.ListCampaignsByCreator(kind, creator.Id)
	if err != nil {
		return nil, err
	}
	return e.campaignViews(state, campaigns)
}

type investorQuery struct {
	InvestorAddress common.Address `json:"investor_address"`
}

func (e *Engine) listCampaignsByInvestor(state State, kind CampaignKind, data json.RawMessage) (interface{}, error) {
	q := investorQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	investor, err := state.GetUserByAddress(q.InvestorAddress)
	if err != nil {
		return nil, err
	}
	orders, err := state.ListOrdersByInvestor(investor.Id)
	if err != nil {
		return nil, err
	}

	seen := map[uint64]bool{}
	campaigns := []*Campaign{}
	for _, order := range orders {
		if seen[order.CampaignId] {
			continue
		}
		seen[order.CampaignId] = true
		campaign, err := state.GetCampaignByID(order.CampaignId)
		if err != nil {
			return nil, err
		}
		if campaign.Kind == kind {
			campaigns = append(campaigns, campaign)
		}
	}
	return e.campaignViews(state, campaigns)
}

func (e *Engine) campaignViews(state State, campaigns []*Campaign) ([]*CampaignView, error) {
	views := []*CampaignView{}
	for _, campaign := range campaigns {
		view, err := e.campaignView(state, campaign)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Engine) listOrders(state State, _ json.RawMessage) (interface{}, error) {
	orders, err := state.ListOrders()
	if err != nil {
		return nil, err
	}
	return e.orderViews(state, orders)
}

func (e *Engine) getOrder(state State, data json.RawMessage) (interface{}, error) {
	q := idQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	order, err := state.GetOrder(q.Id)
	if err != nil {
		return nil, err
	}
	return e.orderViewExpanded(state, order)
}

type campaignIdQuery struct {
	CampaignId uint64 `json:"campaign_id"`
}

func (e *Engine) listOrdersByCampaign(state State, data json.RawMessage) (interface{}, error) {
	q := campaignIdQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	orders, err := state.ListOrdersByCampaign(q.CampaignId)
	if err != nil {
		return nil, err
	}
	return e.orderViews(state, orders)
}

func (e *Engine) listOrdersByInvestor(state State, data json.RawMessage) (interface{}, error) {
	q := investorQuery{}
	if err := unmarshalQuery(data, &q); err != nil {
		return nil, err
	}
	investor, err := state.GetUserByAddress(q.InvestorAddress)
	if err != nil {
		return nil, err
	}
	orders, err := state.ListOrdersByInvestor(investor.Id)
	if err != nil {
		return nil, err
	}
	return e.orderViews(state, orders)
}

func (e *Engine) orderViews(state State, orders []*Order) ([]*OrderView, error) {
	views := []*OrderView{}
	for _, order := range orders {
		view, err := e.orderViewExpanded(state, order)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
