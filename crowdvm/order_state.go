// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
)

var _ OrderState = (*orderState)(nil)

type OrderState interface {
	AddOrder(order *Order) (uint64, error)
	PutOrder(order *Order) error
	GetOrder(id uint64) (*Order, error)
	ListOrders() ([]*Order, error)
	ListOrdersByCampaign(campaignID uint64) ([]*Order, error)
	ListOrdersByInvestor(investorID uint64) ([]*Order, error)
}

type orderState struct {
	orderDB  database.Database
	counters *counterState
}

func NewOrderState(orderDB database.Database, counters *counterState) OrderState {
	return &orderState{
		orderDB:  orderDB,
		counters: counters,
	}
}

func (s *orderState) AddOrder(order *Order) (uint64, error) {
	id, err := s.counters.next(orderStatePrefix)
	if err != nil {
		return 0, err
	}
	order.Id = id
	return id, s.PutOrder(order)
}

func (s *orderState) PutOrder(order *Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.orderDB.Put(packUint64(order.Id), raw)
}

func (s *orderState) GetOrder(id uint64) (*Order, error) {
	raw, err := s.orderDB.Get(packUint64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	order := &Order{}
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderState) ListOrders() ([]*Order, error) {
	return s.list(func(*Order) bool { return true })
}

func (s *orderState) ListOrdersByCampaign(campaignID uint64) ([]*Order, error) {
	return s.list(func(o *Order) bool { return o.CampaignId == campaignID })
}

func (s *orderState) ListOrdersByInvestor(investorID uint64) ([]*Order, error) {
	return s.list(func(o *Order) bool { return o.InvestorId == investorID })
}

func (s *orderState) list(keep func(*Order) bool) ([]*Order, error) {
	it := s.orderDB.NewIterator()
	defer it.Release()

	orders := []*Order{}
	for it.Next() {
		order := &Order{}
		if err := json.Unmarshal(it.Value(), order); err != nil {
			return nil, err
		}
		if keep(order) {
			orders = append(orders, order)
		}
	}
	return orders, it.Error()
}
