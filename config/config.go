// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package config holds the settings shared by the catchup engine, the
// resolver, and the pool client used to reach them.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/indy-vdr/go-indy-vdr/errors"
)

// Config groups the settings a host application wires together to run
// catchup and resolution against a pool.
type Config struct {
	Pool     PoolConfig     `json:"pool"`
	Resolver ResolverConfig `json:"resolver"`
	Logging  LoggingConfig  `json:"logging"`
}

// PoolConfig carries the settings the RequestBuilder and pool transport
// need; the transport itself is an out-of-scope collaborator, but its
// dial/timeout/version parameters are ambient config this module owns.
type PoolConfig struct {
	// NodeEndpoints lists validator node addresses. pool.Local does not
	// read it; its peers are registered with AddPeer.
	NodeEndpoints []string `json:"nodeEndpoints"`

	// AckTimeout bounds how long the engine waits for a single peer's
	// reply before trying another peer.
	AckTimeout time.Duration `json:"ackTimeout"`

	// ProtocolVersion is passed to the RequestBuilder explicitly, per
	// the design note that global state is absent.
	ProtocolVersion int `json:"protocolVersion"`

	// MaxInFlight is checked by Validate to be positive. pool.Local does
	// not read it; its in-flight table is bounded at a fixed 16 peers.
	MaxInFlight int `json:"maxInFlight"`
}

// ResolverConfig carries resolver-specific behavior. There is
// deliberately no cache-TTL field here: caching resolver results is an
// explicit non-goal.
type ResolverConfig struct {
	// Namespace names a default did:indy namespace. No resolver function
	// reads it: did.Parse takes the namespace from each DID URL.
	Namespace string `json:"namespace"`

	// LegacyEndpointFallback enables the GET_ATTRIB "endpoint" fallback
	// for NYM replies lacking inline diddoc_content.
	LegacyEndpointFallback bool `json:"legacyEndpointFallback"`
}

// LoggingConfig controls the shared logger.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			AckTimeout:      5 * time.Second,
			ProtocolVersion: 2,
			MaxInFlight:     16,
		},
		Resolver: ResolverConfig{
			Namespace:              "sovrin",
			LegacyEndpointFallback: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// FromEnv overlays environment-variable overrides onto a base config.
// Recognized variables: INDY_VDR_NODE_ENDPOINTS (comma-separated),
// INDY_VDR_ACK_TIMEOUT_MS, INDY_VDR_PROTOCOL_VERSION, INDY_VDR_NAMESPACE,
// INDY_VDR_LOG_LEVEL.
func FromEnv(base *Config) *Config {
	if base == nil {
		base = Default()
	}
	c := *base

	if v := os.Getenv("INDY_VDR_NODE_ENDPOINTS"); v != "" {
		c.Pool.NodeEndpoints = splitNonEmpty(v, ',')
	}
	if v := os.Getenv("INDY_VDR_ACK_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Pool.AckTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("INDY_VDR_PROTOCOL_VERSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pool.ProtocolVersion = n
		}
	}
	if v := os.Getenv("INDY_VDR_NAMESPACE"); v != "" {
		c.Resolver.Namespace = v
	}
	if v := os.Getenv("INDY_VDR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return &c
}

// LoadFile reads a JSON configuration file, overlaying it on Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInvalidState, "failed to read config file").WithContext("path", path)
	}
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, errors.KindInvalidState, "failed to parse config file").WithContext("path", path)
	}
	return c, nil
}

// Validate checks invariants a caller is expected to uphold before wiring
// the catchup engine or resolver.
func (c *Config) Validate() error {
	if c.Pool.AckTimeout <= 0 {
		return errors.InvalidState("pool.ackTimeout must be positive")
	}
	if c.Pool.MaxInFlight <= 0 {
		return errors.InvalidState("pool.maxInFlight must be positive")
	}
	return nil
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if s[start:i] != "" {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if s[start:] != "" {
		out = append(out, s[start:])
	}
	return out
}
