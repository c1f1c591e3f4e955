// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"fmt"
)

// Op enumerates every request path the machine accepts. Parsing a payload
// yields an Op or fails; there is no dynamic dispatch on raw strings past
// this point.
type Op string

const (
	OpUserCreate             Op = "user/admin/create"
	OpUserDelete             Op = "user/admin/delete"
	OpEmergencyERC20Withdraw Op = "user/admin/emergency-erc20-withdraw"
	OpEmergencyEtherWithdraw Op = "user/admin/emergency-ether-withdraw"
	OpWithdraw               Op = "user/withdraw"

	OpSocialCreate Op = "social/verifier/create"
	OpSocialDelete Op = "social/admin/delete"

	OpCampaignCreate            Op = "campaign/creator/create"
	OpCampaignClose             Op = "campaign/close"
	OpCampaignExecuteCollateral Op = "campaign/execute-collateral"
	OpCampaignSettle            Op = "campaign/creator/settle"

	OpIssuanceCreate            Op = "issuance/creator/create"
	OpIssuanceClose             Op = "issuance/close"
	OpIssuanceExecuteCollateral Op = "issuance/execute-collateral"
	OpIssuanceSettle            Op = "issuance/creator/settle"

	OpOrderCreate Op = "order/create"
	OpOrderCancel Op = "order/cancel"

	OpUserList    Op = "user"
	OpUserGet     Op = "user/address"
	OpUserBalance Op = "user/balance"

	OpSocialGet        Op = "social/id"
	OpSocialListByUser Op = "social/user/id"

	OpCampaignList           Op = "campaign"
	OpCampaignGet            Op = "campaign/id"
	OpCampaignListByCreator  Op = "campaign/creator"
	OpCampaignListByInvestor Op = "campaign/investor"

	OpIssuanceList           Op = "issuance"
	OpIssuanceGet            Op = "issuance/id"
	OpIssuanceListByCreator  Op = "issuance/creator"
	OpIssuanceListByInvestor Op = "issuance/investor"

	OpOrderList           Op = "order"
	OpOrderGet            Op = "order/id"
	OpOrderListByCampaign Op = "order/campaign"
	OpOrderListByInvestor Op = "order/investor"
)

// Request is the envelope every advance command and inspect query arrives
// in. Data is handed to the handler untouched.
type Request struct {
	Path Op              `json:"path"`
	Data json.RawMessage `json:"data"`
}

func parseRequest(payload []byte) (*Request, error) {
	req := &Request{}
	if err := json.Unmarshal(payload, req); err != nil {
		return nil, fmt.Errorf("%w: malformed request: %s", ErrInvalidRequest, err)
	}
	if req.Path == "" {
		return nil, fmt.Errorf("%w: missing path", ErrInvalidRequest)
	}
	return req, nil
}

type (
	advanceHandler func(e *Engine, env *Env, state State, data json.RawMessage) error
	inspectHandler func(e *Engine, state State, data json.RawMessage) (interface{}, error)
)

// advanceRoute gates a mutation behind the roles allowed to invoke it. An
// empty role set admits any sender; handlers still enforce ownership rules
// that depend on the targeted entity.
type advanceRoute struct {
	roles   []UserRole
	handler advanceHandler
}

func campaignOp(kind CampaignKind, h func(*Engine, *Env, State, CampaignKind, json.RawMessage) error) advanceHandler {
	return func(e *Engine, env *Env, state State, data json.RawMessage) error {
		return h(e, env, state, kind, data)
	}
}

func campaignQuery(kind CampaignKind, h func(*Engine, State, CampaignKind, json.RawMessage) (interface{}, error)) inspectHandler {
	return func(e *Engine, state State, data json.RawMessage) (interface{}, error) {
		return h(e, state, kind, data)
	}
}

var advanceRoutes = map[Op]advanceRoute{
	OpUserCreate:             {roles: []UserRole{UserRoleAdmin}, handler: (*Engine).createUser},
	OpUserDelete:             {roles: []UserRole{UserRoleAdmin}, handler: (*Engine).deleteUser},
	OpEmergencyERC20Withdraw: {roles: []UserRole{UserRoleAdmin}, handler: (*Engine).emergencyERC20Withdraw},
	OpEmergencyEtherWithdraw: {roles: []UserRole{UserRoleAdmin}, handler: (*Engine).emergencyEtherWithdraw},
	OpWithdraw:               {handler: (*Engine).withdraw},

	OpSocialCreate: {roles: []UserRole{UserRoleVerifier}, handler: (*Engine).createSocialAccount},
	OpSocialDelete: {roles: []UserRole{UserRoleAdmin}, handler: (*Engine).deleteSocialAccount},

	OpCampaignCreate:            {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindCampaign, (*Engine).createCampaign)},
	OpCampaignClose:             {handler: campaignOp(KindCampaign, (*Engine).closeCampaign)},
	OpCampaignExecuteCollateral: {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindCampaign, (*Engine).executeCollateral)},
	OpCampaignSettle:            {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindCampaign, (*Engine).settleCampaign)},

	OpIssuanceCreate:            {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindIssuance, (*Engine).createCampaign)},
	OpIssuanceClose:             {handler: campaignOp(KindIssuance, (*Engine).closeCampaign)},
	OpIssuanceExecuteCollateral: {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindIssuance, (*Engine).executeCollateral)},
	OpIssuanceSettle:            {roles: []UserRole{UserRoleCreator}, handler: campaignOp(KindIssuance, (*Engine).settleCampaign)},

	OpOrderCreate: {roles: []UserRole{UserRoleInvestor}, handler: (*Engine).createOrder},
	OpOrderCancel: {roles: []UserRole{UserRoleInvestor}, handler: (*Engine).cancelOrder},
}

var inspectRoutes = map[Op]inspectHandler{
	OpUserList:    (*Engine).listUsers,
	OpUserGet:     (*Engine).getUserByAddress,
	OpUserBalance: (*Engine).getBalance,

	OpSocialGet:        (*Engine).getSocialAccount,
	OpSocialListByUser: (*Engine).listSocialAccountsByUser,

	OpCampaignList:           campaignQuery(KindCampaign, (*Engine).listCampaigns),
	OpCampaignGet:            campaignQuery(KindCampaign, (*Engine).getCampaign),
	OpCampaignListByCreator:  campaignQuery(KindCampaign, (*Engine).listCampaignsByCreator),
	OpCampaignListByInvestor: campaignQuery(KindCampaign, (*Engine).listCampaignsByInvestor),

	OpIssuanceList:           campaignQuery(KindIssuance, (*Engine).listCampaigns),
	OpIssuanceGet:            campaignQuery(KindIssuance, (*Engine).getCampaign),
	OpIssuanceListByCreator:  campaignQuery(KindIssuance, (*Engine).listCampaignsByCreator),
	OpIssuanceListByInvestor: campaignQuery(KindIssuance, (*Engine).listCampaignsByInvestor),

	OpOrderList:           (*Engine).listOrders,
	OpOrderGet:            (*Engine).getOrder,
	OpOrderListByCampaign: (*Engine).listOrdersByCampaign,
	OpOrderListByInvestor: (*Engine).listOrdersByInvestor,
}
