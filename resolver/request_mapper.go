// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package resolver

import (
	"strconv"
	"time"

	"github.com/indy-vdr/go-indy-vdr/did"
	"github.com/indy-vdr/go-indy-vdr/errors"
	"github.com/indy-vdr/go-indy-vdr/ids"
)

// BuildRequest is a pure function of (DidUrl, RequestBuilder): equal
// inputs produce byte-equal PreparedRequests. It is a direct port of the
// original build_request decision table.
func BuildRequest(u *did.Url, rb RequestBuilder) (*PreparedRequest, error) {
	if u.Object == nil {
		return buildGetNym(u, rb)
	}

	switch obj := u.Object.(type) {
	case did.Schema:
		return rb.BuildGetSchema(ids.SchemaID{DIDID: u.ID, Name: obj.Name, Version: obj.Version})

	case did.ClaimDef:
		return rb.BuildGetCredDef(ids.CredentialDefinitionID{
			DIDID:       u.ID,
			SchemaSeqNo: obj.SchemaSeqNo,
			Name:        obj.Name,
		})

	case did.RevRegDef:
		return rb.BuildGetRevocRegDef(ids.RevocationRegistryID{
			DIDID:        u.ID,
			SchemaSeqNo:  obj.SchemaSeqNo,
			ClaimDefName: obj.ClaimDefName,
			Tag:          obj.Tag,
		})

	case did.RevRegEntry:
		revRegID := ids.RevocationRegistryID{
			DIDID:        u.ID,
			SchemaSeqNo:  obj.SchemaSeqNo,
			ClaimDefName: obj.ClaimDefName,
			Tag:          obj.Tag,
		}
		_, hasFrom := u.Query["from"]
		_, hasTo := u.Query["to"]
		if !hasFrom && !hasTo {
			ts, err := parseOrNow(u.Query, "versionTime")
			if err != nil {
				return nil, err
			}
			return rb.BuildGetRevocReg(revRegID, uint64(ts))
		}
		return buildRevocRegDelta(rb, revRegID, u.Query)

	case did.RevRegDelta:
		// Deprecated object path; same fields, always a delta read:
		// "from" is optional and "to" defaults to now.
		revRegID := ids.RevocationRegistryID{
			DIDID:        u.ID,
			SchemaSeqNo:  obj.SchemaSeqNo,
			ClaimDefName: obj.ClaimDefName,
			Tag:          obj.Tag,
		}
		return buildRevocRegDelta(rb, revRegID, u.Query)

	default:
		return nil, errors.ResolverErrf("invalid DID URL: unsupported object kind %T", obj)
	}
}

func buildGetNym(u *did.Url, rb RequestBuilder) (*PreparedRequest, error) {
	var seqNo *uint64
	if v, ok := u.Query["versionId"]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.ResolverErrf("Could not parse versionId %s", v)
		}
		seqNo = &n
	}

	var timestamp *uint64
	if v, ok := u.Query["versionTime"]; ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.ResolverErrf("Could not parse datetime %s", v)
		}
		ts := uint64(t.Unix())
		timestamp = &ts
	}

	return rb.BuildGetNym(u.ID, seqNo, timestamp)
}

func buildRevocRegDelta(rb RequestBuilder, revRegID ids.RevocationRegistryID, query map[string]string) (*PreparedRequest, error) {
	var from *int64
	if v, ok := query["from"]; ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.ResolverErrf("Could not parse datetime %s", v)
		}
		f := t.Unix()
		from = &f
	}

	to, err := parseOrNow(query, "to")
	if err != nil {
		return nil, err
	}

	return rb.BuildGetRevocRegDelta(revRegID, from, to)
}

// parseOrNow parses the RFC3339 value of query[key], defaulting to the
// current wall-clock time when the key is absent. A present-but-
// unparseable value is always an error.
func parseOrNow(query map[string]string, key string) (int64, error) {
	v, ok := query[key]
	if !ok {
		return time.Now().Unix(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return 0, errors.ResolverErrf("Could not parse datetime %s", v)
	}
	return t.Unix(), nil
}
