package resource

import (
	"strings"
	"sync"
)

// Interner canonicalizes strings so that equal values share one backing
// instance. After interning, comparing two canonical strings hits the
// pointer fast path of Go string equality, keeping lookups cheap in the
// hot palette and property paths.
type Interner struct {
	mu      sync.RWMutex
	strings map[string]string
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{strings: make(map[string]string)}
}

// DefaultInterner is the interner used by the package-level parsing
// helpers. Callers needing an isolated lifetime can construct their own.
var DefaultInterner = NewInterner()

// Intern returns the canonical instance of s.
func (in *Interner) Intern(s string) string {
	in.mu.RLock()
	canonical, ok := in.strings[s]
	in.mu.RUnlock()
	if ok {
		return canonical
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if canonical, ok := in.strings[s]; ok {
		return canonical
	}
	// strings.Clone detaches s from any larger buffer it may alias.
	canonical = strings.Clone(s)
	in.strings[canonical] = canonical
	return canonical
}

// Lower interns the lowercase form of s. All identifier canonicalization
// goes through here so differently-cased inputs share one instance.
func (in *Interner) Lower(s string) string {
	return in.Intern(strings.ToLower(s))
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}
