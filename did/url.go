// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package did implements DidUrlParser: parsing did:indy DID URLs into a
// structured namespace, identifier, optional anoncreds object path, and
// query map.
package did

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/indy-vdr/go-indy-vdr/errors"
)

// ObjectKind names the kind of anoncreds ledger object an object path
// refers to.
type ObjectKind string

const (
	ObjectSchema      ObjectKind = "SCHEMA"
	ObjectClaimDef    ObjectKind = "CLAIM_DEF"
	ObjectRevRegDef   ObjectKind = "REV_REG_DEF"
	ObjectRevRegEntry ObjectKind = "REV_REG_ENTRY"
	ObjectRevRegDelta ObjectKind = "REV_REG_DELTA"
)

// LedgerObject is the sum type of anoncreds object paths a DID URL may
// carry.
type LedgerObject interface {
	Kind() ObjectKind
}

// Schema identifies an anoncreds schema by name and version.
type Schema struct {
	Name    string
	Version string
}

func (Schema) Kind() ObjectKind { return ObjectSchema }

// ClaimDef identifies a credential definition by the sequence number of
// the schema it's built on and its tag name.
type ClaimDef struct {
	SchemaSeqNo uint64
	Name        string
}

func (ClaimDef) Kind() ObjectKind { return ObjectClaimDef }

// RevRegDef identifies a revocation registry definition.
type RevRegDef struct {
	SchemaSeqNo  uint64
	ClaimDefName string
	Tag          string
}

func (RevRegDef) Kind() ObjectKind { return ObjectRevRegDef }

// RevRegEntry identifies a point-in-time or delta read of a revocation
// registry's accumulator state.
type RevRegEntry struct {
	SchemaSeqNo  uint64
	ClaimDefName string
	Tag          string
}

func (RevRegEntry) Kind() ObjectKind { return ObjectRevRegEntry }

// RevRegDelta is the deprecated object-path spelling of a revocation
// registry delta read; it carries the same fields as RevRegEntry.
type RevRegDelta struct {
	SchemaSeqNo  uint64
	ClaimDefName string
	Tag          string
}

func (RevRegDelta) Kind() ObjectKind { return ObjectRevRegDelta }

// Url is a parsed did:indy DID URL.
type Url struct {
	Namespace string
	ID        string
	Object    LedgerObject // nil when no object path is present
	Query     map[string]string
	Raw       string
}

const scheme = "did:indy:"

// Parse parses a did:indy DID URL into its structured form. Path
// segments carrying user input are percent-decoded before use.
func Parse(raw string) (*Url, error) {
	if !strings.HasPrefix(raw, scheme) {
		return nil, errors.ResolverErrf("invalid DID URL: missing %q prefix: %s", scheme, raw)
	}
	rest := raw[len(scheme):]

	var rawQuery string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rawQuery = rest[i+1:]
		rest = rest[:i]
	}

	var rawPath string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rawPath = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.ResolverErrf("invalid DID URL: expected did:indy:<namespace>:<id>, got %s", raw)
	}

	u := &Url{Namespace: parts[0], ID: parts[1], Raw: raw, Query: map[string]string{}}

	if rawPath != "" {
		obj, err := parseObjectPath(rawPath)
		if err != nil {
			return nil, err
		}
		u.Object = obj
	}

	if rawQuery != "" {
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindResolverError, "invalid DID URL query").WithDetails(rawQuery)
		}
		for k := range values {
			u.Query[k] = values.Get(k)
		}
	}

	return u, nil
}

func parseObjectPath(path string) (LedgerObject, error) {
	rawSegs := strings.Split(path, "/")
	segs := make([]string, len(rawSegs))
	for i, s := range rawSegs {
		decoded, err := url.PathUnescape(s)
		if err != nil {
			return nil, errors.Wrapf(err, errors.KindResolverError, "invalid DID URL path segment %q", s)
		}
		segs[i] = decoded
	}

	if len(segs) < 3 || segs[0] != "anoncreds" || segs[1] != "v0" {
		return nil, errors.ResolverErrf("invalid DID URL: expected anoncreds/v0/<OBJECT> path, got %s", path)
	}

	kind := ObjectKind(segs[2])
	fields := segs[3:]

	switch kind {
	case ObjectSchema:
		if len(fields) != 2 {
			return nil, errors.ResolverErrf("invalid SCHEMA path: expected <name>/<version>, got %v", fields)
		}
		return Schema{Name: fields[0], Version: fields[1]}, nil

	case ObjectClaimDef:
		if len(fields) != 2 {
			return nil, errors.ResolverErrf("invalid CLAIM_DEF path: expected <schema_seq_no>/<name>, got %v", fields)
		}
		seq, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.KindResolverError, "invalid CLAIM_DEF schema sequence number %q", fields[0])
		}
		return ClaimDef{SchemaSeqNo: seq, Name: fields[1]}, nil

	case ObjectRevRegDef:
		seq, err := parseTriple(fields, "REV_REG_DEF")
		if err != nil {
			return nil, err
		}
		return RevRegDef{SchemaSeqNo: seq, ClaimDefName: fields[1], Tag: fields[2]}, nil

	case ObjectRevRegEntry:
		seq, err := parseTriple(fields, "REV_REG_ENTRY")
		if err != nil {
			return nil, err
		}
		return RevRegEntry{SchemaSeqNo: seq, ClaimDefName: fields[1], Tag: fields[2]}, nil

	case ObjectRevRegDelta:
		seq, err := parseTriple(fields, "REV_REG_DELTA")
		if err != nil {
			return nil, err
		}
		return RevRegDelta{SchemaSeqNo: seq, ClaimDefName: fields[1], Tag: fields[2]}, nil

	default:
		return nil, errors.ResolverErrf("invalid DID URL: unknown object kind %q", kind)
	}
}

func parseTriple(fields []string, kind string) (uint64, error) {
	if len(fields) != 3 {
		return 0, errors.ResolverErrf("invalid %s path: expected <schema_seq_no>/<claim_def_name>/<tag>, got %v", kind, fields)
	}
	seq, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.KindResolverError, "invalid %s schema sequence number %q", kind, fields[0])
	}
	return seq, nil
}
