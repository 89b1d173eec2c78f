// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package indyvdr is the root of go-indy-vdr, a client library for
// catching up a local Merkle-sequenced ledger copy from a pool of
// validator nodes and resolving did:indy DID URLs against that ledger.
//
// The core subsystems live in their own packages: merkle (consistency
// proof verification), catchup (the request/retry state machine), did
// (DID URL parsing), resolver (request mapping, orchestration, and
// envelope serialization), and pool (the out-of-scope transport boundary
// plus a reference in-process implementation).
package indyvdr
