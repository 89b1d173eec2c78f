// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package resolver implements RequestMapper, ResolverOrchestrator, and
// the envelope serializer: mapping a parsed DID URL to a typed ledger
// read request, executing it through a pool, and assembling the
// resulting DID-resolution or DID-dereferencing document.
package resolver

import "github.com/indy-vdr/go-indy-vdr/ids"

// Txn type names, matching the ledger's GET_* request vocabulary.
const (
	TxnGetNym           = "GET_NYM"
	TxnGetSchema        = "GET_SCHEMA"
	TxnGetCredDef       = "GET_CRED_DEF"
	TxnGetRevocRegDef   = "GET_REVOC_REG_DEF"
	TxnGetRevocReg      = "GET_REVOC_REG"
	TxnGetRevocRegDelta = "GET_REVOC_REG_DELTA"
	TxnGetAttrib        = "GET_ATTRIB"
)

// LegacyEndpointAttrib is the reserved GET_ATTRIB attribute name used by
// the legacy-endpoint fallback.
const LegacyEndpointAttrib = "endpoint"

// PreparedRequest is a ledger read request ready for pool submission.
type PreparedRequest struct {
	TxnType string
	ReqJSON []byte
}

// RequestBuilder is the out-of-scope request-serialization collaborator:
// it turns a resolved ledger identifier plus parameters into a
// PreparedRequest carrying the pool's wire protocol version.
type RequestBuilder interface {
	ProtocolVersion() int

	BuildGetNym(id string, seqNo *uint64, timestamp *uint64) (*PreparedRequest, error)
	BuildGetAttrib(id, rawAttribName string) (*PreparedRequest, error)
	BuildGetSchema(schemaID ids.SchemaID) (*PreparedRequest, error)
	BuildGetCredDef(credDefID ids.CredentialDefinitionID) (*PreparedRequest, error)
	BuildGetRevocRegDef(revRegID ids.RevocationRegistryID) (*PreparedRequest, error)
	BuildGetRevocReg(revRegID ids.RevocationRegistryID, timestamp uint64) (*PreparedRequest, error)
	BuildGetRevocRegDelta(revRegID ids.RevocationRegistryID, from *int64, to int64) (*PreparedRequest, error)
}
