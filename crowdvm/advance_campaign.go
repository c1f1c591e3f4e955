// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type createCampaignArgs struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Promotion       string         `json:"promotion"`
	Token           common.Address `json:"token"`
	DebtIssued      Amount         `json:"debt_issued"`
	MaxInterestRate Amount         `json:"max_interest_rate"`
	ClosesAt        int64          `json:"closes_at"`
	MaturityAt      int64          `json:"maturity_at"`
}

// createCampaign opens an offering. The ERC20 deposit carried by the input
// is the collateral and stays escrowed until settlement or seizure.
func (e *Engine) createCampaign(env *Env, state State, kind CampaignKind, data json.RawMessage) error {
	deposit, err := env.Deposit()
	if err != nil {
		return err
	}

	args := createCampaignArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	creator, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	if len(creator.SocialAccountIds) == 0 {
		return fmt.Errorf("%w: creator %s has no verified social account", ErrState, creator.Address)
	}

	existing, err := state.ListCampaignsByCreator(kind, creator.Id)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if !c.terminal() {
			return fmt.Errorf("%w: creator already has an active %s", ErrState, kind)
		}
	}

	badge := BadgeAddress(e.cfg.BadgeFactory, env.AppContract(), env.Index(), e.cfg.BadgeBytecode)
	campaign, err := NewCampaign(
		kind,
		args.Title, args.Description, args.Promotion,
		args.Token,
		creator.Id,
		deposit.Token,
		deposit.Amount,
		badge,
		args.MaxInterestRate,
		args.DebtIssued,
		args.ClosesAt, args.MaturityAt, env.Timestamp(),
	)
	if err != nil {
		return err
	}
	if _, err := state.AddCampaign(campaign); err != nil {
		return err
	}

	badgePayload, err := newBadgePayload(env.AppContract(), env.Index())
	if err != nil {
		return err
	}
	env.Voucher(e.cfg.BadgeFactory, nil, badgePayload)

	view, err := e.campaignView(state, campaign)
	if err != nil {
		return err
	}
	return env.Notice(fmt.Sprintf("%s created", kind), view)
}

type closeCampaignArgs struct {
	CreatorAddress common.Address `json:"creator_address"`
}

// closeCampaign runs the interest-rate auction. Anyone may trigger it once
// the close date has passed; the campaign is located through the creator's
// address because a creator holds at most one active offering per kind.
func (e *Engine) closeCampaign(env *Env, state State, kind CampaignKind, data json.RawMessage) error {
	args := closeCampaignArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	creator, err := state.GetUserByAddress(args.CreatorAddress)
	if err != nil {
		return err
	}
	campaigns, err := state.ListCampaignsByCreator(kind, creator.Id)
	if err != nil {
		return err
	}
	var campaign *Campaign
	for _, c := range campaigns {
		if c.State == CampaignOngoing {
			campaign = c
			break
		}
	}
	if campaign == nil {
		return fmt.Errorf("%w: no ongoing %s for creator %s", ErrNotFound, kind, args.CreatorAddress)
	}
	if env.Timestamp() < campaign.ClosesAt {
		return fmt.Errorf("%w: %s %d not expired yet", ErrState, kind, campaign.Id)
	}

	orders, err := state.ListOrdersByCampaign(campaign.Id)
	if err != nil {
		return err
	}
	pending := orders[:0]
	for _, order := range orders {
		if order.State == OrderPending {
			pending = append(pending, order)
		}
	}

	// Cheapest financing first; ties resolve by arrival order.
	sort.Slice(pending, func(i, j int) bool {
		if c := pending[i].InterestRate.Cmp(&pending[j].InterestRate.Int); c != 0 {
			return c < 0
		}
		return pending[i].Id < pending[j].Id
	})

	var (
		totalObligation Amount
		totalRaised     Amount
		accepted        []*Order
	)
	for _, order := range pending {
		obligation := order.Obligation()

		var cumulative uint256.Int
		cumulative.Add(&totalObligation.Int, &obligation.Int)
		if cumulative.Gt(&campaign.DebtIssued.Int) {
			if err := e.refuseOrder(env, state, campaign, order); err != nil {
				return err
			}
			continue
		}

		totalObligation.Set(&cumulative)
		totalRaised.Add(&totalRaised.Int, &order.Amount.Int)

		order.State = OrderAccepted
		order.UpdatedAt = env.Timestamp()
		if err := state.PutOrder(order); err != nil {
			return err
		}
		accepted = append(accepted, order)
	}

	campaign.TotalObligation = totalObligation
	campaign.TotalRaised = totalRaised
	campaign.State = CampaignClosed
	campaign.UpdatedAt = env.Timestamp()
	if err := state.PutCampaign(campaign); err != nil {
		return err
	}

	if err := e.creditProceeds(state, creator, campaign); err != nil {
		return err
	}

	// Every winning investor gets a bond certificate on the badge collection.
	for _, order := range accepted {
		investor, err := state.GetUser(order.InvestorId)
		if err != nil {
			return err
		}
		payload, err := safeMintPayload(campaign.BadgeAddress, investor.Address, BondCertificateID)
		if err != nil {
			return err
		}
		env.DelegateCallVoucher(e.cfg.SafeMint, payload)
	}

	view, err := e.campaignView(state, campaign)
	if err != nil {
		return err
	}
	return env.Notice(fmt.Sprintf("%s closed", kind), view)
}

// refuseOrder applies the configured policy to an order that did not fit
// under the debt cap.
func (e *Engine) refuseOrder(env *Env, state State, campaign *Campaign, order *Order) error {
	if e.cfg.closePolicy() == ClosePolicyCarry {
		return nil
	}

	order.State = OrderCancelled
	order.UpdatedAt = env.Timestamp()
	if err := state.PutOrder(order); err != nil {
		return err
	}
	investor, err := state.GetUser(order.InvestorId)
	if err != nil {
		return err
	}
	return state.Credit(investor.Address, campaign.Token, &order.Amount)
}

// creditProceeds moves the raised principal to the creator's withdrawable
// balance, net of the platform fee which accrues to the admin.
func (e *Engine) creditProceeds(state State, creator *User, campaign *Campaign) error {
	if campaign.TotalRaised.IsZero() {
		return nil
	}

	var fee uint256.Int
	fee.Mul(&campaign.TotalRaised.Int, uint256.NewInt(e.cfg.PlatformFeeBps))
	fee.Div(&fee, uint256.NewInt(10000))

	if !fee.IsZero() {
		admin, err := state.GetUser(GenesisAdminID)
		if err != nil {
			return err
		}
		feeAmount := Amount{Int: fee}
		if err := state.Credit(admin.Address, campaign.Token, &feeAmount); err != nil {
			return err
		}
	}

	var net Amount
	net.Sub(&campaign.TotalRaised.Int, &fee)
	return state.Credit(creator.Address, campaign.Token, &net)
}

type settleCampaignArgs struct {
	Id uint64 `json:"id"`
}

// settleCampaign discharges the debt. The deposit must be the campaign's
// quote token for exactly the total obligation; each investor's repayment is
// credited to their balance and the collateral returns to the creator.
func (e *Engine) settleCampaign(env *Env, state State, kind CampaignKind, data json.RawMessage) error {
	deposit, err := env.Deposit()
	if err != nil {
		return err
	}

	args := settleCampaignArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	campaign, err := state.GetCampaign(kind, args.Id)
	if err != nil {
		return err
	}
	creator, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	if creator.Id != campaign.CreatorId {
		return fmt.Errorf("%w: only the creator can settle %s %d", ErrUnauthorized, kind, campaign.Id)
	}
	if campaign.State != CampaignClosed {
		return fmt.Errorf("%w: %s %d is %s, expected %s", ErrState, kind, campaign.Id, campaign.State, CampaignClosed)
	}
	if env.Timestamp() > campaign.MaturityAt {
		return fmt.Errorf("%w: %s %d is past maturity", ErrState, kind, campaign.Id)
	}
	if deposit.Token != campaign.Token {
		return fmt.Errorf("%w: settlement must deposit token %s", ErrState, campaign.Token)
	}
	if deposit.Amount.Cmp(&campaign.TotalObligation.Int) != 0 {
		return fmt.Errorf(
			"%w: settlement requires exactly %s, got %s",
			ErrState, campaign.TotalObligation.Dec(), deposit.Amount.Dec(),
		)
	}

	orders, err := state.ListOrdersByCampaign(campaign.Id)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if order.State != OrderAccepted {
			continue
		}
		order.State = OrderSettled
		order.UpdatedAt = env.Timestamp()
		if err := state.PutOrder(order); err != nil {
			return err
		}

		investor, err := state.GetUser(order.InvestorId)
		if err != nil {
			return err
		}
		repayment := order.Obligation()
		if err := state.Credit(investor.Address, campaign.Token, &repayment); err != nil {
			return err
		}

		payload, err := safeMintPayload(campaign.BadgeAddress, investor.Address, DischargeCertificateID)
		if err != nil {
			return err
		}
		env.DelegateCallVoucher(e.cfg.SafeMint, payload)
	}

	if err := state.Credit(creator.Address, campaign.Collateral, &campaign.CollateralAmount); err != nil {
		return err
	}

	campaign.State = CampaignSettled
	campaign.UpdatedAt = env.Timestamp()
	if err := state.PutCampaign(campaign); err != nil {
		return err
	}

	view, err := e.campaignView(state, campaign)
	if err != nil {
		return err
	}
	return env.Notice(fmt.Sprintf("%s settled", kind), view)
}

type executeCollateralArgs struct {
	Id uint64 `json:"id"`
}

// executeCollateral seizes the escrowed collateral after maturity passes
// without settlement and splits it across investors pro rata to what they
// were owed.
func (e *Engine) executeCollateral(env *Env, state State, kind CampaignKind, data json.RawMessage) error {
	args := executeCollateralArgs{}
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	campaign, err := state.GetCampaign(kind, args.Id)
	if err != nil {
		return err
	}
	creator, err := state.GetUserByAddress(env.Sender())
	if err != nil {
		return err
	}
	if creator.Id != campaign.CreatorId {
		return fmt.Errorf("%w: only the creator can execute collateral of %s %d", ErrUnauthorized, kind, campaign.Id)
	}
	if campaign.State != CampaignClosed {
		return fmt.Errorf("%w: %s %d is %s, expected %s", ErrState, kind, campaign.Id, campaign.State, CampaignClosed)
	}
	if env.Timestamp() < campaign.MaturityAt {
		return fmt.Errorf("%w: %s %d has not matured yet", ErrState, kind, campaign.Id)
	}

	orders, err := state.ListOrdersByCampaign(campaign.Id)
	if err != nil {
		return err
	}
	seized := []*Order{}
	var totalOwed uint256.Int
	for _, order := range orders {
		if order.State != OrderAccepted {
			continue
		}
		obligation := order.Obligation()
		totalOwed.Add(&totalOwed, &obligation.Int)
		seized = append(seized, order)
	}

	for _, order := range seized {
		order.State = OrderSettledByCollateral
		order.UpdatedAt = env.Timestamp()
		if err := state.PutOrder(order); err != nil {
			return err
		}

		investor, err := state.GetUser(order.InvestorId)
		if err != nil {
			return err
		}

		// share = owed * collateral / total owed, rounding dust down.
		obligation := order.Obligation()
		var share Amount
		share.Mul(&obligation.Int, &campaign.CollateralAmount.Int)
		share.Div(&share.Int, &totalOwed)
		if err := state.Credit(investor.Address, campaign.Collateral, &share); err != nil {
			return err
		}
	}

	campaign.State = CampaignCollateralExecuted
	campaign.UpdatedAt = env.Timestamp()
	if err := state.PutCampaign(campaign); err != nil {
		return err
	}

	view, err := e.campaignView(state, campaign)
	if err != nil {
		return err
	}
	return env.Notice(fmt.Sprintf("%s collateral executed", kind), view)
}
