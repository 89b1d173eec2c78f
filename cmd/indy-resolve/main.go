// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Command indy-resolve resolves a did:indy DID URL against a demo pool and
// prints the resulting DID resolution or dereferencing envelope.
//
// The underlying request serialization and validator-node transport are
// out-of-scope collaborators (see the resolver and pool packages); this
// command wires them with a small demo RequestBuilder and a pool.Local
// instance seeded with canned ledger replies, so it can be run without a
// live pool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/indy-vdr/go-indy-vdr/config"
	"github.com/indy-vdr/go-indy-vdr/logging"
	"github.com/indy-vdr/go-indy-vdr/resolver"
)

func main() {
	var (
		didURL     = flag.String("did-url", "", "did:indy DID URL to resolve or dereference")
		configPath = flag.String("config", "", "path to a JSON config file (optional)")
		deref      = flag.Bool("dereference", false, "dereference instead of resolve")
	)
	flag.Parse()

	if *didURL == "" {
		fmt.Fprintln(os.Stderr, "indy-resolve: -did-url is required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg = config.FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "indy-resolve: invalid config: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = 0
	}
	logger, err := logging.New(&logging.Config{Level: level, Format: cfg.Logging.Format, Output: cfg.Logging.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
		os.Exit(1)
	}

	demoPool := newDemoPool()
	r := resolver.NewResolver(demoRequestBuilder{protocolVersion: cfg.Pool.ProtocolVersion}, demoPool, cfg.Resolver.LegacyEndpointFallback, logger)

	ctx := context.Background()
	var out []byte
	if *deref {
		result, err := r.Dereference(ctx, *didURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
			os.Exit(1)
		}
		out, err = resolver.MarshalPretty(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
			os.Exit(1)
		}
	} else {
		result, err := r.Resolve(ctx, *didURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
			os.Exit(1)
		}
		out, err = resolver.MarshalPretty(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "indy-resolve: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(string(out))
}

// demoReply is what newDemoPool's single peer returns for any request
// other than GET_ATTRIB (which gets demoAttribReply): a canned NYM record with an inline verkey but no diddocContent, so the
// legacy-endpoint fallback path is exercised too.
var demoReply = []byte(`{"result":{"data":{"dest":"7Tqg6BwSSWapxgUDm9KKgg","verkey":"~7TYfekw4GUagBnBVCqPjiC"}}}`)

var demoAttribReply = []byte(`{"result":{"data":{"raw":"{\"endpoint\":{\"endpoint\":\"https://example.org/endpoint\"}}"}}}`)
