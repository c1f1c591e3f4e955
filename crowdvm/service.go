// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crowdvm

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/rpc/v2"

	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

// Service exposes the engine over JSON-RPC. Payloads travel hex encoded so
// the output bytes survive the transport untouched.
type Service struct{ engine *Engine }

// NewHandler returns the HTTP handler serving the crowdvm API.
func NewHandler(engine *Engine) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(&Service{engine: engine}, Name)
}

type AdvanceArgs struct {
	MsgSender      common.Address `json:"msgSender"`
	AppContract    common.Address `json:"appContract"`
	BlockTimestamp cjson.Uint64   `json:"blockTimestamp"`
	Index          cjson.Uint64   `json:"index"`
	Payload        string         `json:"payload"`
}

type OutputReply struct {
	Type        string `json:"type"`
	Destination string `json:"destination,omitempty"`
	Value       string `json:"value,omitempty"`
	Payload     string `json:"payload"`
}

type AdvanceReply struct {
	Outputs []OutputReply `json:"outputs"`
}

// Advance applies one input to the ledger.
func (s *Service) Advance(_ *http.Request, args *AdvanceArgs, reply *AdvanceReply) error {
	payload, err := formatting.Decode(formatting.Hex, args.Payload)
	if err != nil {
		return err
	}

	outputs, err := s.engine.Advance(Metadata{
		MsgSender:      args.MsgSender,
		AppContract:    args.AppContract,
		BlockTimestamp: int64(args.BlockTimestamp),
		Index:          uint64(args.Index),
	}, payload)
	if err != nil {
		return err
	}

	reply.Outputs = make([]OutputReply, 0, len(outputs))
	for _, output := range outputs {
		encoded, err := encodeOutput(output)
		if err != nil {
			return err
		}
		reply.Outputs = append(reply.Outputs, encoded)
	}
	return nil
}

func encodeOutput(output Output) (OutputReply, error) {
	switch o := output.(type) {
	case *Voucher:
		payload, err := formatting.Encode(formatting.Hex, o.Payload)
		if err != nil {
			return OutputReply{}, err
		}
		return OutputReply{
			Type:        "voucher",
			Destination: o.Destination.Hex(),
			Value:       o.Value.String(),
			Payload:     payload,
		}, nil
	case *DelegateCallVoucher:
		payload, err := formatting.Encode(formatting.Hex, o.Payload)
		if err != nil {
			return OutputReply{}, err
		}
		return OutputReply{
			Type:        "delegate_call_voucher",
			Destination: o.Destination.Hex(),
			Payload:     payload,
		}, nil
	default:
		payload, err := formatting.Encode(formatting.Hex, output.(*Notice).Payload)
		if err != nil {
			return OutputReply{}, err
		}
		return OutputReply{
			Type:    "notice",
			Payload: payload,
		}, nil
	}
}

type InspectArgs struct {
	Payload string `json:"payload"`
}

type InspectReply struct {
	Report string `json:"report"`
}

// Inspect runs a read-only query and returns the report payload.
func (s *Service) Inspect(_ *http.Request, args *InspectArgs, reply *InspectReply) error {
	payload, err := formatting.Decode(formatting.Hex, args.Payload)
	if err != nil {
		return err
	}

	report, err := s.engine.Inspect(payload)
	if err != nil {
		return err
	}

	reply.Report, err = formatting.Encode(formatting.Hex, report)
	return err
}
