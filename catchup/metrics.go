// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package catchup

import "sync/atomic"

// Metrics tracks counters across catchup sessions, adapted from the
// teacher's atomic-counter Metrics pattern (types/metrics.go).
type Metrics struct {
	sessionsStarted    atomic.Uint64
	sessionsSucceeded  atomic.Uint64
	peerTimeouts       atomic.Uint64
	proofFailures      atomic.Uint64
	unexpectedMessages atomic.Uint64
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordSessionStart() { m.sessionsStarted.Add(1) }
func (m *Metrics) recordSuccess()      { m.sessionsSucceeded.Add(1) }
func (m *Metrics) recordPeerTimeout()  { m.peerTimeouts.Add(1) }
func (m *Metrics) recordProofFailure() { m.proofFailures.Add(1) }
func (m *Metrics) recordUnexpected()   { m.unexpectedMessages.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SessionsStarted    uint64
	SessionsSucceeded  uint64
	PeerTimeouts       uint64
	ProofFailures      uint64
	UnexpectedMessages uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		SessionsStarted:    m.sessionsStarted.Load(),
		SessionsSucceeded:  m.sessionsSucceeded.Load(),
		PeerTimeouts:       m.peerTimeouts.Load(),
		ProofFailures:      m.proofFailures.Load(),
		UnexpectedMessages: m.unexpectedMessages.Load(),
	}
}

// SuccessRate returns the fraction of started sessions that succeeded,
// or 0 if none have started.
func (m *Metrics) SuccessRate() float64 {
	started := m.sessionsStarted.Load()
	if started == 0 {
		return 0
	}
	return float64(m.sessionsSucceeded.Load()) / float64(started)
}
