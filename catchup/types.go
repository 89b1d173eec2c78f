// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package catchup implements CatchupEngine: the request/reply state
// machine that extends a local Merkle tree toward a target root,
// verifying each candidate reply with MerkleVerifier before accepting
// it.
package catchup

import (
	"encoding/hex"
	"time"
)

// Target is the committed state the caller wants to catch up to: a root
// hash and leaf count obtained out-of-band from pool consensus.
type Target struct {
	RootHash []byte
	Size     uint64
}

// Request is the outbound CatchupReq.
type Request struct {
	LedgerID    int    `json:"ledgerId"`
	SeqNoStart  uint64 `json:"seqNoStart"`
	SeqNoEnd    uint64 `json:"seqNoEnd"`
	CatchupTill uint64 `json:"catchupTill"`
}

// Reply is the inbound CatchupRep: an ordered batch of transactions and
// a consistency proof (a sequence of hex-encoded hashes) from the source
// height to the target height.
type Reply struct {
	Txns         [][]byte `json:"txns"`
	ConsProofHex []string `json:"consProof"`
}

// ConsProof decodes the reply's hex-encoded consistency proof hashes.
func (r *Reply) ConsProof() ([][]byte, error) {
	proof := make([][]byte, len(r.ConsProofHex))
	for i, h := range r.ConsProofHex {
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, err
		}
		proof[i] = b
	}
	return proof, nil
}

// Result is what a successful catchup session returns to the caller.
type Result struct {
	Txns     [][]byte
	Duration time.Duration
}
