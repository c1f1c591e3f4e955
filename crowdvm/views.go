// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

// Views are the entity shapes that cross the notice/report boundary. They
// expand foreign keys into the referenced records so that observers never
// need a second query, and their field order fixes the output byte encoding.

type OrderView struct {
	Id           uint64      `json:"id"`
	CampaignId   uint64      `json:"campaign_id"`
	Investor     *User       `json:"investor"`
	Amount       Amount      `json:"amount"`
	InterestRate Amount      `json:"interest_rate"`
	State        OrderStatus `json:"state"`
	CreatedAt    int64       `json:"created_at"`
	UpdatedAt    int64       `json:"updated_at"`
}

type CampaignView struct {
	Campaign
	Creator *User        `json:"creator"`
	Orders  []*OrderView `json:"orders"`
}

// BalanceView answers the user/balance query.
type BalanceView struct {
	Owner   string `json:"owner"`
	Token   string `json:"token"`
	Balance Amount `json:"balance"`
}

func orderView(order *Order, investor *User) *OrderView {
	return &OrderView{
		Id:           order.Id,
		CampaignId:   order.CampaignId,
		Investor:     investor,
		Amount:       order.Amount,
		InterestRate: order.InterestRate,
		State:        order.State,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func (e *Engine) campaignView(state State, campaign *Campaign) (*CampaignView, error) {
	creator, err := state.GetUser(campaign.CreatorId)
	if err != nil {
		return nil, err
	}

	orders := []*OrderView{}
	for _, id := range campaign.OrderIds {
		order, err := state.GetOrder(id)
		if err != nil {
			return nil, err
		}
		view, err := e.orderViewExpanded(state, order)
		if err != nil {
			return nil, err
		}
		orders = append(orders, view)
	}

	return &CampaignView{
		Campaign: *campaign,
		Creator:  creator,
		Orders:   orders,
	}, nil
}

func (e *Engine) orderViewExpanded(state State, order *Order) (*OrderView, error) {
	investor, err := state.GetUser(order.InvestorId)
	if err != nil {
		return nil, err
	}
	return orderView(order, investor), nil
}
