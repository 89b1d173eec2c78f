// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package resolver

import "encoding/json"

// ContentMetadata carries the parsed ledger reply alongside a label for
// the kind of object it describes.
type ContentMetadata struct {
	NodeResponse json.RawMessage `json:"nodeResponse"`
	ObjectType   string          `json:"objectType"`
}

// ResolutionResult is the output of resolving a DID to its DID document.
type ResolutionResult struct {
	DidResolutionMetadata map[string]interface{} `json:"didResolutionMetadata"`
	DidDocument           *DidDocument            `json:"didDocument"`
	DidDocumentMetadata   *ContentMetadata        `json:"didDocumentMetadata"`
}

// DereferencingResult is the output of dereferencing a DID URL to a
// specific resource (schema, credential definition, revocation registry
// state).
type DereferencingResult struct {
	DereferencingMetadata map[string]interface{} `json:"dereferencingMetadata"`
	ContentStream         json.RawMessage         `json:"contentStream"`
	ContentMetadata       *ContentMetadata        `json:"contentMetadata"`
}

// DidDocument is a minimal did:indy DID document: enough to carry a
// verification key and, when the legacy-endpoint fallback succeeds, a
// single service entry.
type DidDocument struct {
	Context            string               `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod,omitempty"`
	Service            []Service            `json:"service,omitempty"`
}

// VerificationMethod describes the DID subject's public key.
type VerificationMethod struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Controller      string `json:"controller"`
	PublicKeyBase58 string `json:"publicKeyBase58"`
}

// Service is a DID document service entry, synthesized from a fetched
// legacy endpoint.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// MarshalPretty renders v (a *ResolutionResult or *DereferencingResult)
// as pretty-printed JSON, per the envelope serializer's output contract.
func MarshalPretty(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
