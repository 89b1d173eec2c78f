// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package resolver

import (
	"testing"
	"time"

	"github.com/indy-vdr/go-indy-vdr/did"
	ierrors "github.com/indy-vdr/go-indy-vdr/errors"
	"github.com/indy-vdr/go-indy-vdr/ids"
)

// fakeRequestBuilder is a hand-written RequestBuilder double that records
// the last call made to it, used to assert BuildRequest's dispatch
// decisions without a mocking library.
type fakeRequestBuilder struct {
	gotGetRevocReg      *capturedGetRevocReg
	gotGetRevocRegDelta *capturedGetRevocRegDelta
	gotGetSchema        *ids.SchemaID
}

type capturedGetRevocReg struct {
	revRegID  ids.RevocationRegistryID
	timestamp uint64
}

type capturedGetRevocRegDelta struct {
	revRegID ids.RevocationRegistryID
	from     *int64
	to       int64
}

func (f *fakeRequestBuilder) ProtocolVersion() int { return 2 }

func (f *fakeRequestBuilder) BuildGetNym(id string, seqNo, timestamp *uint64) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetNym}, nil
}

func (f *fakeRequestBuilder) BuildGetAttrib(id, rawAttribName string) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetAttrib}, nil
}

func (f *fakeRequestBuilder) BuildGetSchema(schemaID ids.SchemaID) (*PreparedRequest, error) {
	f.gotGetSchema = &schemaID
	return &PreparedRequest{TxnType: TxnGetSchema}, nil
}

func (f *fakeRequestBuilder) BuildGetCredDef(credDefID ids.CredentialDefinitionID) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetCredDef}, nil
}

func (f *fakeRequestBuilder) BuildGetRevocRegDef(revRegID ids.RevocationRegistryID) (*PreparedRequest, error) {
	return &PreparedRequest{TxnType: TxnGetRevocRegDef}, nil
}

func (f *fakeRequestBuilder) BuildGetRevocReg(revRegID ids.RevocationRegistryID, timestamp uint64) (*PreparedRequest, error) {
	f.gotGetRevocReg = &capturedGetRevocReg{revRegID: revRegID, timestamp: timestamp}
	return &PreparedRequest{TxnType: TxnGetRevocReg}, nil
}

func (f *fakeRequestBuilder) BuildGetRevocRegDelta(revRegID ids.RevocationRegistryID, from *int64, to int64) (*PreparedRequest, error) {
	f.gotGetRevocRegDelta = &capturedGetRevocRegDelta{revRegID: revRegID, from: from, to: to}
	return &PreparedRequest{TxnType: TxnGetRevocRegDelta}, nil
}

func mustParse(t *testing.T, raw string) *did.Url {
	t.Helper()
	u, err := did.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected parse error for %s: %v", raw, err)
	}
	return u
}

func TestBuildRequestRevocRegWithVersionTime(t *testing.T) {
	const versionTime = "2020-12-20T17:47:47Z"
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM?versionTime=" + versionTime
	u := mustParse(t, raw)

	rb := &fakeRequestBuilder{}
	req, err := BuildRequest(u, rb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TxnType != TxnGetRevocReg {
		t.Fatalf("expected GET_REVOC_REG, got %s", req.TxnType)
	}
	wantTS, _ := time.Parse(time.RFC3339, versionTime)
	if rb.gotGetRevocReg == nil || rb.gotGetRevocReg.timestamp != uint64(wantTS.Unix()) {
		t.Fatalf("unexpected timestamp: %+v", rb.gotGetRevocReg)
	}
}

func TestBuildRequestRevocRegDefaultsToNow(t *testing.T) {
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM"
	u := mustParse(t, raw)

	rb := &fakeRequestBuilder{}
	before := time.Now().Unix()
	req, err := BuildRequest(u, rb)
	after := time.Now().Unix()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TxnType != TxnGetRevocReg {
		t.Fatalf("expected GET_REVOC_REG, got %s", req.TxnType)
	}
	ts := int64(rb.gotGetRevocReg.timestamp)
	if ts < before || ts > after {
		t.Fatalf("expected timestamp near now, got %d (window %d-%d)", ts, before, after)
	}
}

func TestBuildRequestUnparseableDatetime(t *testing.T) {
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM?versionTime=not-a-date"
	u := mustParse(t, raw)

	_, err := BuildRequest(u, &fakeRequestBuilder{})
	if err == nil {
		t.Fatal("expected error for unparseable datetime")
	}
	if !ierrors.Is(err, ierrors.KindResolverError) {
		t.Fatalf("expected ResolverError, got %v", err)
	}
}

func TestBuildRequestRevocRegDeltaFromAndTo(t *testing.T) {
	const from = "2019-12-20T00:00:00Z"
	const to = "2020-12-20T17:47:47Z"
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM?from=" + from + "&to=" + to
	u := mustParse(t, raw)

	rb := &fakeRequestBuilder{}
	req, err := BuildRequest(u, rb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TxnType != TxnGetRevocRegDelta {
		t.Fatalf("expected GET_REVOC_REG_DELTA, got %s", req.TxnType)
	}
	wantFrom, _ := time.Parse(time.RFC3339, from)
	wantTo, _ := time.Parse(time.RFC3339, to)
	d := rb.gotGetRevocRegDelta
	if d == nil || d.from == nil || *d.from != wantFrom.Unix() || d.to != wantTo.Unix() {
		t.Fatalf("unexpected delta request: %+v", d)
	}
}

func TestBuildRequestRevocRegDeltaFromOnly(t *testing.T) {
	const from = "2019-12-20T00:00:00Z"
	raw := "did:indy:sovrin:abc/anoncreds/v0/REV_REG_ENTRY/15/tag/CL_ACCUM?from=" + from
	u := mustParse(t, raw)

	rb := &fakeRequestBuilder{}
	before := time.Now().Unix()
	req, err := BuildRequest(u, rb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TxnType != TxnGetRevocRegDelta {
		t.Fatalf("expected GET_REVOC_REG_DELTA, got %s", req.TxnType)
	}
	d := rb.gotGetRevocRegDelta
	wantFrom, _ := time.Parse(time.RFC3339, from)
	if d == nil || d.from == nil || *d.from != wantFrom.Unix() {
		t.Fatalf("unexpected from: %+v", d)
	}
	if d.to < before {
		t.Fatalf("expected to >= now, got %d < %d", d.to, before)
	}
}

func TestBuildRequestSchemaPercentEncodedName(t *testing.T) {
	raw := "did:indy:sovrin:abc/anoncreds/v0/SCHEMA/My%20Schema/1.0"
	u := mustParse(t, raw)

	rb := &fakeRequestBuilder{}
	req, err := BuildRequest(u, rb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TxnType != TxnGetSchema {
		t.Fatalf("expected GET_SCHEMA, got %s", req.TxnType)
	}
	if rb.gotGetSchema == nil || rb.gotGetSchema.Name != "My Schema" || rb.gotGetSchema.Version != "1.0" {
		t.Fatalf("unexpected schema id: %+v", rb.gotGetSchema)
	}
}
