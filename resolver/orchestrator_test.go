// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package resolver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/indy-vdr/go-indy-vdr/ids"
	"github.com/indy-vdr/go-indy-vdr/pool"
)

// routingRequestBuilder builds minimal PreparedRequests carrying enough of
// the txn type to let a test pool.Local responder decide what to answer,
// without needing a real wire codec.
type routingRequestBuilder struct{}

func (routingRequestBuilder) ProtocolVersion() int { return 2 }

func (routingRequestBuilder) BuildGetNym(id string, seqNo, timestamp *uint64) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetNym, ReqJSON: []byte(`{"identifier":"` + id + `"}`)}, nil
}

func (routingRequestBuilder) BuildGetAttrib(id, rawAttribName string) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetAttrib, ReqJSON: []byte(`{"identifier":"` + id + `","raw":"` + rawAttribName + `"}`)}, nil
}

func (routingRequestBuilder) BuildGetSchema(schemaID ids.SchemaID) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetSchema}, nil
}

func (routingRequestBuilder) BuildGetCredDef(credDefID ids.CredentialDefinitionID) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetCredDef}, nil
}

func (routingRequestBuilder) BuildGetRevocRegDef(revRegID ids.RevocationRegistryID) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetRevocRegDef}, nil
}

func (routingRequestBuilder) BuildGetRevocReg(revRegID ids.RevocationRegistryID, timestamp uint64) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetRevocReg}, nil
}

func (routingRequestBuilder) BuildGetRevocRegDelta(revRegID ids.RevocationRegistryID, from *int64, to int64) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetRevocRegDelta}, nil
}

func ledgerData(t *testing.T, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	env, err := json.Marshal(map[string]interface{}{
		"result": map[string]json.RawMessage{"data": raw},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return env
}

func TestResolveNymWithInlineDiddocContent(t *testing.T) {
	diddoc := map[string]interface{}{
		"@context": "https://www.w3.org/ns/did/v1",
		"id":       "did:indy:sovrin:abc",
	}
	diddocRaw, _ := json.Marshal(diddoc)

	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		pr := req.(*PreparedRequest)
		if pr.TxnType != TxnGetNym {
			t.Fatalf("unexpected txn type %s", pr.TxnType)
		}
		return pool.Response{
			Kind: pool.EventReceivedReply,
			Reply: ledgerData(t, map[string]interface{}{
				"dest":          "abc",
				"verkey":        "~somekey",
				"diddocContent": json.RawMessage(diddocRaw),
			}),
		}
	})

	r := NewResolver(routingRequestBuilder{}, p, true, nil)
	res, err := r.Resolve(context.Background(), "did:indy:sovrin:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DidDocument == nil || res.DidDocument.ID != "did:indy:sovrin:abc" {
		t.Fatalf("unexpected doc: %+v", res.DidDocument)
	}
	if len(res.DidDocument.VerificationMethod) != 1 || res.DidDocument.VerificationMethod[0].PublicKeyBase58 != "~somekey" {
		t.Fatalf("expected document built from dest/verkey regardless of diddocContent, got: %+v", res.DidDocument.VerificationMethod)
	}
	if res.DidDocumentMetadata.ObjectType != "NYM" {
		t.Fatalf("expected NYM object type, got %s", res.DidDocumentMetadata.ObjectType)
	}
}

func TestResolveNymWithLegacyEndpointFallback(t *testing.T) {
	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		pr := req.(*PreparedRequest)
		switch pr.TxnType {
		case TxnGetNym:
			return pool.Response{
				Kind:  pool.EventReceivedReply,
				Reply: ledgerData(t, map[string]interface{}{"dest": "abc", "verkey": "~somekey"}),
			}
		case TxnGetAttrib:
			return pool.Response{
				Kind:  pool.EventReceivedReply,
				Reply: ledgerData(t, map[string]interface{}{"raw": `{"endpoint":{"endpoint":"https://example.com"}}`}),
			}
		}
		t.Fatalf("unexpected txn type %s", pr.TxnType)
		return pool.Response{}
	})

	r := NewResolver(routingRequestBuilder{}, p, true, nil)
	res, err := r.Resolve(context.Background(), "did:indy:sovrin:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.DidDocument.Service) != 1 || res.DidDocument.Service[0].ServiceEndpoint != "https://example.com" {
		t.Fatalf("expected resolved legacy endpoint, got %+v", res.DidDocument.Service)
	}
}

func TestResolveNymLegacyEndpointFallbackSwallowsFailure(t *testing.T) {
	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		pr := req.(*PreparedRequest)
		switch pr.TxnType {
		case TxnGetNym:
			return pool.Response{
				Kind:  pool.EventReceivedReply,
				Reply: ledgerData(t, map[string]interface{}{"dest": "abc", "verkey": "~somekey"}),
			}
		case TxnGetAttrib:
			return pool.Response{Kind: pool.EventReceivedOther, Err: nil}
		}
		t.Fatalf("unexpected txn type %s", pr.TxnType)
		return pool.Response{}
	})

	r := NewResolver(routingRequestBuilder{}, p, true, nil)
	res, err := r.Resolve(context.Background(), "did:indy:sovrin:abc")
	if err != nil {
		t.Fatalf("expected legacy endpoint failure to be swallowed, got error: %v", err)
	}
	if len(res.DidDocument.Service) != 0 {
		t.Fatalf("expected no service entries, got %+v", res.DidDocument.Service)
	}
}

func TestDereferenceRevocRegFallsBackToUnknownObjectType(t *testing.T) {
	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		return pool.Response{
			Kind:  pool.EventReceivedReply,
			Reply: ledgerData(t, map[string]interface{}{"accum": "1 0000"}),
		}
	})

	r := NewResolver(routingRequestBuilder{}, p, false, nil)
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM?versionTime=2020-12-20T00:00:00Z"
	res, err := r.Dereference(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// GET_REVOC_REG is conspicuously absent from the explicit-label set;
	// it always falls through to "UNKNOWN".
	if res.ContentMetadata.ObjectType != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN object type for GET_REVOC_REG, got %s", res.ContentMetadata.ObjectType)
	}
}

func TestDereferenceRevocRegDeltaGetsExplicitObjectType(t *testing.T) {
	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		return pool.Response{
			Kind:  pool.EventReceivedReply,
			Reply: ledgerData(t, map[string]interface{}{"value": map[string]interface{}{}}),
		}
	})

	r := NewResolver(routingRequestBuilder{}, p, false, nil)
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM" +
		"?from=2019-12-20T00:00:00Z&to=2020-12-20T00:00:00Z"
	res, err := r.Dereference(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentMetadata.ObjectType != "REV_REG_DELTA" {
		t.Fatalf("expected REV_REG_DELTA object type, got %s", res.ContentMetadata.ObjectType)
	}
}

func TestRunnerResolverInvokesCallbackExactlyOnce(t *testing.T) {
	p := pool.NewLocal()
	p.AddPeer("peer1", func(req pool.Request) pool.Response {
		return pool.Response{
			Kind:  pool.EventReceivedReply,
			Reply: ledgerData(t, map[string]interface{}{"dest": "abc", "verkey": "~somekey"}),
		}
	})

	r := NewRunnerResolver(routingRequestBuilder{}, p, false, nil)
	var calls int
	r.Resolve(context.Background(), "did:indy:sovrin:abc", func(res *ResolutionResult, err error) {
		calls++
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	if calls != 1 {
		t.Fatalf("expected exactly one callback invocation, got %d", calls)
	}
}
