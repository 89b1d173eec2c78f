// nomocks.go
//
// Anti-mock guardrails for go-indy-vdr. Catchup and resolution are tested
// against the reference in-process pool in package pool, never against a
// mocking library.

package indyvdr

import (
	"fmt"
	"reflect"
	"strings"
)

// NoMocksPolicy enforces that no mock types or mocking libraries creep
// into the codebase. Call ValidateType/ValidatePackage from a package's
// init() to enforce it.
type NoMocksPolicy struct{}

// ValidateType panics if t's name contains "mock" in any letter case.
func (NoMocksPolicy) ValidateType(t reflect.Type) {
	name := t.Name()
	if strings.Contains(strings.ToLower(name), "mock") {
		panic(fmt.Sprintf(
			"Mock type %q detected. This codebase is mock-free; test against "+
				"the reference pool.Local implementation or a real pool instead.",
			name,
		))
	}
}

// ValidatePackage panics if imports contains a known mocking library.
func (NoMocksPolicy) ValidatePackage(imports []string) {
	mockLibraries := []string{
		"github.com/stretchr/testify/mock",
		"github.com/golang/mock",
		"go.uber.org/mock",
		"github.com/vektra/mockery",
	}
	for _, imp := range imports {
		for _, lib := range mockLibraries {
			if strings.Contains(imp, lib) {
				panic(fmt.Sprintf("mock library %q imported; this codebase is mock-free", imp))
			}
		}
	}
}

// EnforceMockFreePolicy is the package-wide policy enforcer.
var EnforceMockFreePolicy = NoMocksPolicy{}
