// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pool

import (
	"context"
	"sync"
	"time"

	"github.com/indy-vdr/go-indy-vdr/errors"
)

// Response is the canned event a Local peer returns for a request.
type Response struct {
	Kind  EventKind
	Reply []byte
	Err   error
	// Delay simulates how long the peer took to answer; if it exceeds
	// the caller's ackTimeout, SendToAny reports EventTimeout instead
	// of delivering Reply.
	Delay time.Duration
}

// Responder produces a Response for a given request. Tests register one
// per peer name to script exactly the sequence of replies a catchup or
// resolution test scenario needs.
type Responder func(req Request) Response

// Local is a reference, in-process Pool used by tests and the cmd/
// examples. It holds no network connection; per nomocks.go it is a real,
// if trivial, implementation rather than a mocking-library double.
type Local struct {
	mu         sync.Mutex
	peerOrder  []string
	responders map[string]Responder
	inflight   *inflightTable
}

// NewLocal creates an empty Local pool. Peers are added with AddPeer in
// the order SendToAny should try them.
func NewLocal() *Local {
	return &Local{
		responders: make(map[string]Responder),
		inflight:   newInflightTable(16),
	}
}

// AddPeer registers a peer and its canned responder.
func (l *Local) AddPeer(name string, r Responder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.responders[name]; !exists {
		l.peerOrder = append(l.peerOrder, name)
	}
	l.responders[name] = r
}

func (l *Local) peers() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.peerOrder...)
}

// SendToAny tries each registered peer in turn, reporting a timeout
// event for any peer whose simulated Delay exceeds ackTimeout, and an
// EventExhausted event once every peer has been tried. A peer still
// marked in-flight from an overlapping SendToAny call on the same Local
// is skipped rather than dispatched to twice.
func (l *Local) SendToAny(ctx context.Context, req Request, ackTimeout time.Duration) <-chan RequestEvent {
	out := make(chan RequestEvent)

	go func() {
		defer close(out)

		for _, peer := range l.peers() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if l.inflight.isInflight(peer, ackTimeout) {
				continue
			}

			l.inflight.track(peer, req)
			resp := l.responders[peer](req)
			l.inflight.clear(peer)

			var ev RequestEvent
			if resp.Delay > ackTimeout {
				ev = RequestEvent{Kind: EventTimeout, Peer: peer}
			} else {
				ev = RequestEvent{Kind: resp.Kind, Peer: peer, Reply: resp.Reply, Err: resp.Err}
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}

		select {
		case out <- RequestEvent{Kind: EventExhausted}:
		case <-ctx.Done():
		}
	}()

	return out
}

// Submit performs a single round trip against the first registered peer,
// surfacing its error verbatim.
func (l *Local) Submit(ctx context.Context, req Request) ([]byte, error) {
	peers := l.peers()
	if len(peers) == 0 {
		return nil, errors.FromPool(errors.New(errors.KindPool, "no peers registered"))
	}

	peer := peers[0]
	resp := l.responders[peer](req)
	if resp.Err != nil {
		return nil, errors.FromPool(resp.Err)
	}
	return resp.Reply, nil
}
