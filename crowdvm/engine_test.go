// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var (
	portalAddr   = common.HexToAddress("0x0000000000000000000000000000000000000100")
	factoryAddr  = common.HexToAddress("0x0000000000000000000000000000000000000200")
	safeMintAddr = common.HexToAddress("0x0000000000000000000000000000000000000300")
	sweepAddr    = common.HexToAddress("0x0000000000000000000000000000000000000400")
	appAddr      = common.HexToAddress("0x0000000000000000000000000000000000000500")

	adminAddr     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	verifierAddr  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	creatorAddr   = common.HexToAddress("0x0000000000000000000000000000000000000003")
	investorAddr  = common.HexToAddress("0x0000000000000000000000000000000000000004")
	investor2Addr = common.HexToAddress("0x0000000000000000000000000000000000000005")

	quoteToken     = common.HexToAddress("0x0000000000000000000000000000000000000600")
	collateralAddr = common.HexToAddress("0x0000000000000000000000000000000000000700")
)

func testConfig() Config {
	return Config{
		ERC20Portal:       portalAddr,
		BadgeFactory:      factoryAddr,
		SafeMint:          safeMintAddr,
		EmergencyWithdraw: sweepAddr,
		BadgeBytecode:     []byte{0x60, 0x80, 0x60, 0x40},
		Admin:             adminAddr,
		Verifier:          verifierAddr,
	}
}

func newTestEngine(t *testing.T) *Engine {
	engine, err := New(testConfig(), memdb.New())
	assert.NoError(t, err)
	return engine
}

func command(t *testing.T, path Op, data interface{}) []byte {
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	payload, err := json.Marshal(Request{Path: path, Data: raw})
	assert.NoError(t, err)
	return payload
}

func advance(e *Engine, sender common.Address, ts int64, index uint64, payload []byte) ([]Output, error) {
	return e.Advance(Metadata{
		MsgSender:      sender,
		AppContract:    appAddr,
		BlockTimestamp: ts,
		Index:          index,
	}, payload)
}

func depositAdvance(t *testing.T, e *Engine, sender, token common.Address, amount uint64, ts int64, index uint64, inner []byte) ([]Output, error) {
	value := NewAmount(amount)
	payload, err := EncodeDeposit(&ERC20Deposit{
		Token:  token,
		Sender: sender,
		Amount: value,
	}, inner)
	assert.NoError(t, err)
	return advance(e, portalAddr, ts, index, payload)
}

func registerUser(t *testing.T, e *Engine, addr common.Address, role UserRole, ts int64, index uint64) {
	_, err := advance(e, adminAddr, ts, index, command(t, OpUserCreate, createUserArgs{
		Address: addr,
		Role:    role,
	}))
	assert.NoError(t, err)
}

func attestSocial(t *testing.T, e *Engine, userID uint64, username string, ts int64, index uint64) {
	_, err := advance(e, verifierAddr, ts, index, command(t, OpSocialCreate, createSocialAccountArgs{
		UserId:   userID,
		Username: username,
		Platform: PlatformTwitter,
	}))
	assert.NoError(t, err)
}

// openCampaign drives the happy-path setup most tests share: an attested
// creator with 10000 collateral, a 100000 debt cap and one 70000 order at
// rate 9.
func openCampaign(t *testing.T, e *Engine) {
	registerUser(t, e, creatorAddr, UserRoleCreator, 100, 1)
	registerUser(t, e, investorAddr, UserRoleInvestor, 100, 2)
	attestSocial(t, e, 3, "solarplant", 200, 3)

	_, err := depositAdvance(t, e, creatorAddr, collateralAddr, 10000, 1000, 4, command(t, OpCampaignCreate, createCampaignArgs{
		Title:           "solar plant",
		Description:     "finance a rooftop solar plant",
		Promotion:       "earn up to 10%",
		Token:           quoteToken,
		DebtIssued:      NewAmount(100000),
		MaxInterestRate: NewAmount(10),
		ClosesAt:        2000,
		MaturityAt:      3000,
	}))
	assert.NoError(t, err)

	_, err = depositAdvance(t, e, investorAddr, quoteToken, 70000, 1500, 5, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(9),
	}))
	assert.NoError(t, err)
}

func closeOpenCampaign(t *testing.T, e *Engine) []Output {
	outputs, err := advance(e, investorAddr, 2100, 6, command(t, OpCampaignClose, closeCampaignArgs{
		CreatorAddress: creatorAddr,
	}))
	assert.NoError(t, err)
	return outputs
}

func TestGenesisUsers(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	admin, err := e.state.GetUser(GenesisAdminID)
	assert.NoError(err)
	assert.Equal(adminAddr, admin.Address)
	assert.Equal(UserRoleAdmin, admin.Role)

	verifier, err := e.state.GetUser(GenesisVerifierID)
	assert.NoError(err)
	assert.Equal(verifierAddr, verifier.Address)
	assert.Equal(UserRoleVerifier, verifier.Role)
}

func TestGenesisSeedsOnce(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()

	first, err := New(testConfig(), db)
	assert.NoError(err)
	registerUser(t, first, creatorAddr, UserRoleCreator, 100, 1)

	// Reopening over the same database must not reseed the genesis users.
	second, err := New(testConfig(), db)
	assert.NoError(err)

	users, err := second.state.ListUsers()
	assert.NoError(err)
	assert.Len(users, 3)
}

func TestUserIdsAreMonotonic(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	addrs := []common.Address{creatorAddr, investorAddr, investor2Addr}
	for i, addr := range addrs {
		registerUser(t, e, addr, UserRoleInvestor, 100, uint64(i+1))
	}
	for i, addr := range addrs {
		user, err := e.state.GetUserByAddress(addr)
		assert.NoError(err)
		assert.Equal(uint64(3+i), user.Id)
	}
}

func TestUnauthorizedAdvanceLeavesNoTrace(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	outputs, err := advance(e, investorAddr, 100, 1, command(t, OpUserCreate, createUserArgs{
		Address: creatorAddr,
		Role:    UserRoleCreator,
	}))
	assert.ErrorIs(err, ErrUnauthorized)
	assert.Empty(outputs)

	users, err := e.state.ListUsers()
	assert.NoError(err)
	assert.Len(users, 2)
}

func TestUnclaimedDepositCreditsDepositor(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	// A deposit wrapped around a command that takes no funds must not strand
	// the tokens inside the application.
	outputs, err := depositAdvance(t, e, adminAddr, quoteToken, 999, 100, 1, command(t, OpUserCreate, createUserArgs{
		Address: creatorAddr,
		Role:    UserRoleCreator,
	}))
	assert.NoError(err)
	assert.Len(outputs, 1)

	_, err = e.state.GetUserByAddress(creatorAddr)
	assert.NoError(err)

	balance, err := e.state.Balance(adminAddr, quoteToken)
	assert.NoError(err)
	assert.Equal("999", balance.Dec())
}

func TestCampaignCreateRequiresSocialAccount(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	registerUser(t, e, creatorAddr, UserRoleCreator, 100, 1)

	_, err := depositAdvance(t, e, creatorAddr, collateralAddr, 10000, 1000, 2, command(t, OpCampaignCreate, createCampaignArgs{
		Title:           "unattested offering",
		Description:     "creator without a verified social account",
		Promotion:       "earn up to 10%",
		Token:           quoteToken,
		DebtIssued:      NewAmount(100000),
		MaxInterestRate: NewAmount(10),
		ClosesAt:        2000,
		MaturityAt:      3000,
	}))
	assert.ErrorIs(err, ErrState)

	campaigns, err := e.state.ListCampaigns(KindCampaign)
	assert.NoError(err)
	assert.Empty(campaigns)
}

func TestCampaignCloseAuction(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	outputs := closeOpenCampaign(t, e)

	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal(CampaignClosed, campaign.State)
	assert.Equal("76300", campaign.TotalObligation.Dec())
	assert.Equal("70000", campaign.TotalRaised.Dec())

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderAccepted, order.State)

	// One bond certificate mint, then the closing notice.
	assert.Len(outputs, 2)
	voucher, ok := outputs[0].(*DelegateCallVoucher)
	assert.True(ok)
	assert.Equal(safeMintAddr, voucher.Destination)
	notice, ok := outputs[1].(*Notice)
	assert.True(ok)
	assert.True(bytes.HasPrefix(notice.Payload, []byte("campaign closed - ")))

	// Raised principal is withdrawable by the creator, no fee configured.
	balance, err := e.state.Balance(creatorAddr, quoteToken)
	assert.NoError(err)
	assert.Equal("70000", balance.Dec())
}

func TestCampaignCloseBeforeExpiry(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	_, err := advance(e, investorAddr, 1900, 6, command(t, OpCampaignClose, closeCampaignArgs{
		CreatorAddress: creatorAddr,
	}))
	assert.ErrorIs(err, ErrState)

	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal(CampaignOngoing, campaign.State)
}

func TestCampaignSettle(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	closeOpenCampaign(t, e)

	outputs, err := depositAdvance(t, e, creatorAddr, quoteToken, 76300, 2500, 7, command(t, OpCampaignSettle, settleCampaignArgs{
		Id: 1,
	}))
	assert.NoError(err)

	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal(CampaignSettled, campaign.State)

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderSettled, order.State)

	// Discharge certificate mint, then the settlement notice.
	assert.Len(outputs, 2)
	voucher, ok := outputs[0].(*DelegateCallVoucher)
	assert.True(ok)
	assert.Equal(safeMintAddr, voucher.Destination)
	notice, ok := outputs[1].(*Notice)
	assert.True(ok)
	assert.True(bytes.HasPrefix(notice.Payload, []byte("campaign settled - ")))

	investorBalance, err := e.state.Balance(investorAddr, quoteToken)
	assert.NoError(err)
	assert.Equal("76300", investorBalance.Dec())

	// Collateral flows back to the creator.
	collateral, err := e.state.Balance(creatorAddr, collateralAddr)
	assert.NoError(err)
	assert.Equal("10000", collateral.Dec())
}

func TestSettleWrongAmountIsAtomic(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	closeOpenCampaign(t, e)

	outputs, err := depositAdvance(t, e, creatorAddr, quoteToken, 76000, 2500, 7, command(t, OpCampaignSettle, settleCampaignArgs{
		Id: 1,
	}))
	assert.ErrorIs(err, ErrState)
	assert.Empty(outputs)

	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal(CampaignClosed, campaign.State)

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderAccepted, order.State)

	balance, err := e.state.Balance(investorAddr, quoteToken)
	assert.NoError(err)
	assert.True(balance.IsZero())
}

func TestExecuteCollateral(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	closeOpenCampaign(t, e)

	// Too early: maturity has not passed.
	_, err := advance(e, creatorAddr, 2500, 7, command(t, OpCampaignExecuteCollateral, executeCollateralArgs{
		Id: 1,
	}))
	assert.ErrorIs(err, ErrState)

	outputs, err := advance(e, creatorAddr, 3500, 8, command(t, OpCampaignExecuteCollateral, executeCollateralArgs{
		Id: 1,
	}))
	assert.NoError(err)
	assert.Len(outputs, 1)
	notice, ok := outputs[0].(*Notice)
	assert.True(ok)
	assert.True(bytes.HasPrefix(notice.Payload, []byte("campaign collateral executed - ")))

	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal(CampaignCollateralExecuted, campaign.State)

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderSettledByCollateral, order.State)

	// The lone investor receives the entire collateral.
	balance, err := e.state.Balance(investorAddr, collateralAddr)
	assert.NoError(err)
	assert.Equal("10000", balance.Dec())
}

func TestCloseRefundsLosingOrders(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	registerUser(t, e, creatorAddr, UserRoleCreator, 100, 1)
	registerUser(t, e, investorAddr, UserRoleInvestor, 100, 2)
	registerUser(t, e, investor2Addr, UserRoleInvestor, 100, 3)
	attestSocial(t, e, 3, "warehouseco", 200, 4)

	_, err := depositAdvance(t, e, creatorAddr, collateralAddr, 10000, 1000, 5, command(t, OpCampaignCreate, createCampaignArgs{
		Title:           "warehouse expansion",
		Description:     "finance a second warehouse",
		Promotion:       "earn up to 10%",
		Token:           quoteToken,
		DebtIssued:      NewAmount(100000),
		MaxInterestRate: NewAmount(10),
		ClosesAt:        2000,
		MaturityAt:      3000,
	}))
	assert.NoError(err)

	_, err = depositAdvance(t, e, investorAddr, quoteToken, 60000, 1200, 6, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(5),
	}))
	assert.NoError(err)
	_, err = depositAdvance(t, e, investor2Addr, quoteToken, 50000, 1300, 7, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(10),
	}))
	assert.NoError(err)

	closeOpenCampaign(t, e)

	// 60000@5 -> 63000 fits; adding 50000@10 -> 55000 would breach the cap.
	campaign, err := e.state.GetCampaign(KindCampaign, 1)
	assert.NoError(err)
	assert.Equal("63000", campaign.TotalObligation.Dec())
	assert.Equal("60000", campaign.TotalRaised.Dec())

	winner, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderAccepted, winner.State)

	loser, err := e.state.GetOrder(2)
	assert.NoError(err)
	assert.Equal(OrderCancelled, loser.State)

	refund, err := e.state.Balance(investor2Addr, quoteToken)
	assert.NoError(err)
	assert.Equal("50000", refund.Dec())
}

func TestOrderCancelRefundsEscrow(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	outputs, err := advance(e, investorAddr, 1600, 6, command(t, OpOrderCancel, cancelOrderArgs{Id: 1}))
	assert.NoError(err)
	assert.Len(outputs, 1)

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderCancelled, order.State)

	balance, err := e.state.Balance(investorAddr, quoteToken)
	assert.NoError(err)
	assert.Equal("70000", balance.Dec())
}

func TestOrderCancelByOtherInvestor(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	registerUser(t, e, investor2Addr, UserRoleInvestor, 100, 6)

	_, err := advance(e, investor2Addr, 1600, 7, command(t, OpOrderCancel, cancelOrderArgs{Id: 1}))
	assert.ErrorIs(err, ErrUnauthorized)

	order, err := e.state.GetOrder(1)
	assert.NoError(err)
	assert.Equal(OrderPending, order.State)
}

func TestOrderRateAboveMaximum(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	_, err := depositAdvance(t, e, investorAddr, quoteToken, 1000, 1600, 6, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(11),
	}))
	assert.ErrorIs(err, ErrInvalidRequest)
}

func TestOrderWrongToken(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	_, err := depositAdvance(t, e, investorAddr, collateralAddr, 1000, 1600, 6, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(5),
	}))
	assert.ErrorIs(err, ErrInvalidRequest)
}

func TestWithdraw(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	closeOpenCampaign(t, e)

	outputs, err := advance(e, creatorAddr, 2200, 7, command(t, OpWithdraw, withdrawArgs{
		Token:  quoteToken,
		Amount: NewAmount(70000),
	}))
	assert.NoError(err)
	assert.Len(outputs, 2)
	voucher, ok := outputs[0].(*Voucher)
	assert.True(ok)
	assert.Equal(quoteToken, voucher.Destination)

	balance, err := e.state.Balance(creatorAddr, quoteToken)
	assert.NoError(err)
	assert.True(balance.IsZero())

	// A second withdrawal has nothing left to take.
	_, err = advance(e, creatorAddr, 2300, 8, command(t, OpWithdraw, withdrawArgs{
		Token:  quoteToken,
		Amount: NewAmount(1),
	}))
	assert.ErrorIs(err, ErrInsufficientFunds)
}

func TestEmergencyWithdrawVouchers(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	outputs, err := advance(e, adminAddr, 100, 1, command(t, OpEmergencyERC20Withdraw, emergencyERC20Args{
		To:    adminAddr,
		Token: quoteToken,
	}))
	assert.NoError(err)
	assert.Len(outputs, 1)
	voucher, ok := outputs[0].(*DelegateCallVoucher)
	assert.True(ok)
	assert.Equal(sweepAddr, voucher.Destination)

	outputs, err = advance(e, adminAddr, 100, 2, command(t, OpEmergencyEtherWithdraw, emergencyEtherArgs{
		To: adminAddr,
	}))
	assert.NoError(err)
	assert.Len(outputs, 1)
	voucher, ok = outputs[0].(*DelegateCallVoucher)
	assert.True(ok)
	assert.Equal(sweepAddr, voucher.Destination)
}

func TestSecondActiveCampaignRejected(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	_, err := depositAdvance(t, e, creatorAddr, collateralAddr, 5000, 1200, 6, command(t, OpCampaignCreate, createCampaignArgs{
		Title:           "second offering",
		Description:     "a parallel offering by the same creator",
		Promotion:       "should not exist",
		Token:           quoteToken,
		DebtIssued:      NewAmount(1000),
		MaxInterestRate: NewAmount(5),
		ClosesAt:        2000,
		MaturityAt:      3000,
	}))
	assert.ErrorIs(err, ErrState)
}

func TestIssuanceIsolatedFromCampaigns(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	// The campaign exists in the unified id space but not as an issuance.
	_, err := e.state.GetCampaign(KindIssuance, 1)
	assert.ErrorIs(err, ErrNotFound)

	report, err := e.Inspect(command(t, OpIssuanceList, nil))
	assert.NoError(err)
	assert.Equal("[]", string(report))
}

func TestIssuanceLifecycle(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	registerUser(t, e, creatorAddr, UserRoleCreator, 100, 1)
	registerUser(t, e, investorAddr, UserRoleInvestor, 100, 2)
	attestSocial(t, e, 3, "bondco", 200, 3)

	_, err := depositAdvance(t, e, creatorAddr, collateralAddr, 10000, 1000, 4, command(t, OpIssuanceCreate, createCampaignArgs{
		Title:           "bond issuance",
		Description:     "short term working capital",
		Promotion:       "earn up to 8%",
		Token:           quoteToken,
		DebtIssued:      NewAmount(100000),
		MaxInterestRate: NewAmount(8),
		ClosesAt:        2000,
		MaturityAt:      3000,
	}))
	assert.NoError(err)

	_, err = depositAdvance(t, e, investorAddr, quoteToken, 70000, 1500, 5, command(t, OpOrderCreate, createOrderArgs{
		CampaignId:   1,
		InterestRate: NewAmount(8),
	}))
	assert.NoError(err)

	outputs, err := advance(e, investorAddr, 2100, 6, command(t, OpIssuanceClose, closeCampaignArgs{
		CreatorAddress: creatorAddr,
	}))
	assert.NoError(err)
	notice, ok := outputs[len(outputs)-1].(*Notice)
	assert.True(ok)
	assert.True(bytes.HasPrefix(notice.Payload, []byte("issuance closed - ")))

	issuance, err := e.state.GetCampaign(KindIssuance, 1)
	assert.NoError(err)
	assert.Equal(CampaignClosed, issuance.State)
	assert.Equal("75600", issuance.TotalObligation.Dec())
}

func TestInspectIsByteIdempotent(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)

	query := command(t, OpCampaignGet, idQuery{Id: 1})
	first, err := e.Inspect(query)
	assert.NoError(err)
	second, err := e.Inspect(query)
	assert.NoError(err)
	assert.Equal(first, second)
	assert.NotEmpty(first)
}

func TestInspectUnknownPath(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.Inspect(command(t, Op("campaign/unknown"), nil))
	assert.True(errors.Is(err, ErrInvalidRequest))
}

func TestInspectBalance(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	openCampaign(t, e)
	closeOpenCampaign(t, e)

	report, err := e.Inspect(command(t, OpUserBalance, balanceQuery{
		Address: creatorAddr,
		Token:   quoteToken,
	}))
	assert.NoError(err)

	view := BalanceView{}
	assert.NoError(json.Unmarshal(report, &view))
	assert.Equal("70000", view.Balance.Dec())
}

func TestSocialAccountLifecycle(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	registerUser(t, e, creatorAddr, UserRoleCreator, 100, 1)

	outputs, err := advance(e, verifierAddr, 200, 2, command(t, OpSocialCreate, createSocialAccountArgs{
		UserId:   3,
		Username: "solarplant",
		Platform: PlatformTwitter,
	}))
	assert.NoError(err)
	assert.Len(outputs, 1)

	user, err := e.state.GetUser(3)
	assert.NoError(err)
	assert.Equal([]uint64{1}, user.SocialAccountIds)

	// Only the verifier can attest accounts.
	_, err = advance(e, adminAddr, 250, 3, command(t, OpSocialCreate, createSocialAccountArgs{
		UserId:   3,
		Username: "again",
		Platform: PlatformInstagram,
	}))
	assert.ErrorIs(err, ErrUnauthorized)

	_, err = advance(e, adminAddr, 300, 4, command(t, OpSocialDelete, deleteSocialAccountArgs{
		SocialAccountId: 1,
	}))
	assert.NoError(err)

	user, err = e.state.GetUser(3)
	assert.NoError(err)
	assert.Empty(user.SocialAccountIds)

	_, err = e.state.GetSocialAccount(1)
	assert.ErrorIs(err, ErrNotFound)
}

func TestReplayIsDeterministic(t *testing.T) {
	assert := assert.New(t)

	run := func() []byte {
		e := newTestEngine(t)
		openCampaign(t, e)
		closeOpenCampaign(t, e)
		report, err := e.Inspect(command(t, OpCampaignGet, idQuery{Id: 1}))
		assert.NoError(err)
		return report
	}

	assert.Equal(run(), run())
}
