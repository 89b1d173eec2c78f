// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package ids holds the identifier value objects the resolver formats
// and hands to a RequestBuilder. They are out-of-scope collaborators per
// the purpose and scope statement, referenced by interface only, so each
// carries nothing beyond the bit-exact string formatting §6 requires.
package ids

import "fmt"

// SchemaID is the ledger identifier for an AnonCreds schema.
type SchemaID struct {
	DIDID   string
	Name    string
	Version string
}

func (s SchemaID) String() string {
	return fmt.Sprintf("%s:2:%s:%s", s.DIDID, s.Name, s.Version)
}

// CredentialDefinitionID is the ledger identifier for an AnonCreds
// credential definition: <did-id>:3:CL:<schema_seq_no>:<name>.
type CredentialDefinitionID struct {
	DIDID       string
	SchemaSeqNo uint64
	Name        string
}

func (c CredentialDefinitionID) String() string {
	return fmt.Sprintf("%s:3:CL:%d:%s", c.DIDID, c.SchemaSeqNo, c.Name)
}

// RevocationRegistryID is the ledger identifier for a revocation
// registry: <did-id>:4:<did-id>:3:CL:<schema_seq_no>:<claim_def_name>:CL_ACCUM:<tag>.
type RevocationRegistryID struct {
	DIDID         string
	SchemaSeqNo   uint64
	ClaimDefName  string
	Tag           string
}

func (r RevocationRegistryID) String() string {
	return fmt.Sprintf("%s:4:%s:3:CL:%d:%s:CL_ACCUM:%s", r.DIDID, r.DIDID, r.SchemaSeqNo, r.ClaimDefName, r.Tag)
}
