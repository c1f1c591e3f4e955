// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/crowdvm/crowdvm/crowdvm"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

// Client defines crowdvm client operations.
type Client interface {
	// Advance submits one input for execution and returns its outputs.
	Advance(ctx context.Context, meta crowdvm.Metadata, payload []byte) ([]crowdvm.OutputReply, error)

	// Inspect runs a read-only query and returns the report payload.
	Inspect(ctx context.Context, payload []byte) ([]byte, error)
}

// New creates a new client object.
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Advance(ctx context.Context, meta crowdvm.Metadata, payload []byte) ([]crowdvm.OutputReply, error) {
	encoded, err := formatting.Encode(formatting.Hex, payload)
	if err != nil {
		return nil, err
	}

	resp := new(crowdvm.AdvanceReply)
	err = cli.req.SendRequest(ctx,
		"crowdvm.advance",
		&crowdvm.AdvanceArgs{
			MsgSender:      meta.MsgSender,
			AppContract:    meta.AppContract,
			BlockTimestamp: cjson.Uint64(meta.BlockTimestamp),
			Index:          cjson.Uint64(meta.Index),
			Payload:        encoded,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Outputs, nil
}

func (cli *client) Inspect(ctx context.Context, payload []byte) ([]byte, error) {
	encoded, err := formatting.Encode(formatting.Hex, payload)
	if err != nil {
		return nil, err
	}

	resp := new(crowdvm.InspectReply)
	err = cli.req.SendRequest(ctx,
		"crowdvm.inspect",
		&crowdvm.InspectArgs{Payload: encoded},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return formatting.Decode(formatting.Hex, resp.Report)
}
