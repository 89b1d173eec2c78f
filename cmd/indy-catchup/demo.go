// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/transparency-dev/merkle/compact"
	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"

	"github.com/indy-vdr/go-indy-vdr/catchup"
	"github.com/indy-vdr/go-indy-vdr/pool"
)

var demoHasher = rfc6962.DefaultHasher

// newDemoCatchupScenario builds a single-peer pool.Local that answers a
// CatchupReq for an initially empty source tree with a correctly formed
// reply reaching the given target size, and the Target the reply should
// be verified against.
func newDemoCatchupScenario(targetSize uint64) (catchup.Target, *pool.Local, error) {
	txns := make([][]byte, targetSize)
	for i := range txns {
		txns[i] = []byte(fmt.Sprintf(`{"seqNo":%d,"txn":"demo-transaction"}`, i+1))
	}

	cache := make(map[compact.NodeID][]byte)
	rf := &compact.RangeFactory{Hash: demoHasher.HashChildren}
	rng := rf.NewEmptyRange(0)
	visit := func(id compact.NodeID, hash []byte) { cache[id] = append([]byte(nil), hash...) }
	for _, txn := range txns {
		if err := rng.Append(demoHasher.HashLeaf(txn), visit); err != nil {
			return catchup.Target{}, nil, err
		}
	}
	root, err := rng.GetRootHash(nil)
	if err != nil {
		return catchup.Target{}, nil, err
	}

	nodes, err := proof.Consistency(0, targetSize)
	if err != nil {
		return catchup.Target{}, nil, err
	}
	hashes := make([][]byte, 0, len(nodes.IDs))
	for _, id := range nodes.IDs {
		hashes = append(hashes, cache[id])
	}
	hashes, err = nodes.Rehash(hashes, demoHasher.HashChildren)
	if err != nil {
		return catchup.Target{}, nil, err
	}
	consProofHex := make([]string, len(hashes))
	for i, h := range hashes {
		consProofHex[i] = hex.EncodeToString(h)
	}

	reply, err := json.Marshal(catchup.Reply{Txns: txns, ConsProofHex: consProofHex})
	if err != nil {
		return catchup.Target{}, nil, err
	}

	p := pool.NewLocal()
	p.AddPeer("demo-node-1", func(req pool.Request) pool.Response {
		return pool.Response{Kind: pool.EventReceivedReply, Reply: reply}
	})

	return catchup.Target{RootHash: root, Size: targetSize}, p, nil
}
