// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package catchup

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/indy-vdr/go-indy-vdr/errors"
	"github.com/indy-vdr/go-indy-vdr/logging"
	"github.com/indy-vdr/go-indy-vdr/merkle"
	"github.com/indy-vdr/go-indy-vdr/pool"
)

// Engine drives the catchup request/reply cycle against a pool. States:
// Idle -> AwaitingReply -> (Verified | Retry) -> terminal Reply(txns) or
// Failed(reason). A new attempt is only dispatched after the previous
// one terminated; no partial state from a rejected reply is retained —
// the working tree is re-cloned from the caller's source tree for every
// attempt.
type Engine struct {
	verifier *merkle.Verifier
	logger   *logging.Logger
	metrics  *Metrics
}

// NewEngine constructs a CatchupEngine. A nil logger falls back to the
// package-level global logger.
func NewEngine(logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Global()
	}
	return &Engine{
		verifier: merkle.NewVerifier(),
		logger:   logger.WithComponent("catchup"),
		metrics:  NewMetrics(),
	}
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Run executes one catchup session: it sends a single CatchupReq to the
// pool and evaluates replies until one verifies, an unexpected message or
// a peer-exhaustion event arrives, or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, p pool.Pool, source merkle.Tree, target Target, ackTimeout time.Duration) (*Result, error) {
	n := source.Size()
	N := target.Size

	if n >= N {
		return nil, errors.InvalidState("No transactions to catch up")
	}

	req := Request{
		LedgerID:    0,
		SeqNoStart:  n + 1,
		SeqNoEnd:    N,
		CatchupTill: N,
	}

	e.metrics.recordSessionStart()
	events := p.SendToAny(ctx, req, ackTimeout)

	for ev := range events {
		switch ev.Kind {
		case pool.EventReceivedReply:
			result, verified, err := e.tryReply(source, ev.Reply, target)
			e.logger.LogCatchupAttempt(ev.Peer, req.SeqNoStart, req.SeqNoEnd, verified, 0)
			if err != nil {
				// Malformed reply: treated as a verification failure
				// against this peer. Reject and wait for the pool to
				// try another.
				e.metrics.recordProofFailure()
				continue
			}
			if !verified {
				e.metrics.recordProofFailure()
				continue
			}
			e.metrics.recordSuccess()
			return result, nil

		case pool.EventReceivedOther:
			// Strict unexpected-message policy, per design note: an
			// explicit non-reply message from a peer terminates the
			// session rather than being retried.
			e.metrics.recordUnexpected()
			return nil, errors.InvalidState("Unexpected response")

		case pool.EventTimeout:
			e.metrics.recordPeerTimeout()
			continue

		case pool.EventExhausted:
			return nil, errors.PoolTimeoutErr("Request timeout")

		default:
			return nil, errors.InvalidState("Unexpected response")
		}
	}

	return nil, errors.PoolTimeoutErr("Request timeout")
}

// tryReply decodes and verifies one candidate reply against a fresh
// clone of source. It never mutates source.
func (e *Engine) tryReply(source merkle.Tree, raw []byte, target Target) (*Result, bool, error) {
	start := time.Now()

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, false, err
	}
	consProof, err := reply.ConsProof()
	if err != nil {
		return nil, false, err
	}

	working := source.Clone()
	for _, txn := range reply.Txns {
		if err := e.verifier.Append(working, txn); err != nil {
			return nil, false, err
		}
	}

	// consProof spans the source height to the target height, so it is
	// checked against source's root; the batch is then accepted only if
	// appending it reproduces the target root at the target size.
	if err := e.verifier.VerifyConsistency(source, consProof, target.RootHash, target.Size); err != nil {
		return nil, false, nil
	}
	if working.Size() != target.Size || !bytes.Equal(working.Root(), target.RootHash) {
		return nil, false, nil
	}

	return &Result{Txns: reply.Txns, Duration: time.Since(start)}, true, nil
}
