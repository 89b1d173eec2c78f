// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/json"

	"github.com/indy-vdr/go-indy-vdr/ids"
	"github.com/indy-vdr/go-indy-vdr/pool"
	"github.com/indy-vdr/go-indy-vdr/resolver"
)

// demoRequestBuilder is a minimal RequestBuilder that serializes each
// request to the ledger's GET_* wire shape. It stands in for the
// out-of-scope request-serialization collaborator so this command runs
// without linking a real wire codec.
type demoRequestBuilder struct {
	protocolVersion int
}

func (d demoRequestBuilder) ProtocolVersion() int { return d.protocolVersion }

func (d demoRequestBuilder) reqJSON(operation string, data map[string]interface{}) []byte {
	data["operation"] = operation
	data["protocolVersion"] = d.protocolVersion
	b, _ := json.Marshal(data)
	return b
}

func (d demoRequestBuilder) BuildGetNym(id string, seqNo, timestamp *uint64) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetNym, ReqJSON: d.reqJSON(resolver.TxnGetNym, map[string]interface{}{"dest": id})}, nil
}

func (d demoRequestBuilder) BuildGetAttrib(id, rawAttribName string) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetAttrib, ReqJSON: d.reqJSON(resolver.TxnGetAttrib, map[string]interface{}{"dest": id, "raw": rawAttribName})}, nil
}

func (d demoRequestBuilder) BuildGetSchema(schemaID ids.SchemaID) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetSchema, ReqJSON: d.reqJSON(resolver.TxnGetSchema, map[string]interface{}{"dest": schemaID.DIDID})}, nil
}

func (d demoRequestBuilder) BuildGetCredDef(credDefID ids.CredentialDefinitionID) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetCredDef, ReqJSON: d.reqJSON(resolver.TxnGetCredDef, map[string]interface{}{"origin": credDefID.DIDID})}, nil
}

func (d demoRequestBuilder) BuildGetRevocRegDef(revRegID ids.RevocationRegistryID) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetRevocRegDef, ReqJSON: d.reqJSON(resolver.TxnGetRevocRegDef, map[string]interface{}{"id": revRegID.String()})}, nil
}

func (d demoRequestBuilder) BuildGetRevocReg(revRegID ids.RevocationRegistryID, timestamp uint64) (*resolver.PreparedRequest, error) {
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetRevocReg, ReqJSON: d.reqJSON(resolver.TxnGetRevocReg, map[string]interface{}{"revocRegDefId": revRegID.String(), "timestamp": timestamp})}, nil
}

func (d demoRequestBuilder) BuildGetRevocRegDelta(revRegID ids.RevocationRegistryID, from *int64, to int64) (*resolver.PreparedRequest, error) {
	data := map[string]interface{}{"revocRegDefId": revRegID.String(), "to": to}
	if from != nil {
		data["from"] = *from
	}
	return &resolver.PreparedRequest{TxnType: resolver.TxnGetRevocRegDelta, ReqJSON: d.reqJSON(resolver.TxnGetRevocRegDelta, data)}, nil
}

// newDemoPool builds a single-peer pool.Local seeded with canned replies,
// good enough to demonstrate the NYM and legacy-endpoint-fallback paths
// without a live validator node.
func newDemoPool() *pool.Local {
	p := pool.NewLocal()
	p.AddPeer("demo-node-1", func(req pool.Request) pool.Response {
		pr, ok := req.(*resolver.PreparedRequest)
		if !ok {
			return pool.Response{Kind: pool.EventReceivedOther}
		}
		switch pr.TxnType {
		case resolver.TxnGetAttrib:
			return pool.Response{Kind: pool.EventReceivedReply, Reply: demoAttribReply}
		default:
			return pool.Response{Kind: pool.EventReceivedReply, Reply: demoReply}
		}
	})
	return p
}
