// Package resource provides the identity types stored in a decoded
// world: namespaced resource locations and block states, with a string
// interner keeping equality checks cheap.
package resource

import "strings"

// DefaultNamespace is assumed when an identifier carries no namespace.
const DefaultNamespace = "minecraft"

// Location is a namespaced identifier such as "minecraft:stone". Both
// parts are lowercase-canonicalized and interned at construction, so
// Location is a comparable value type usable as a map key.
type Location struct {
	Namespace string
	Name      string
}

// NewLocation builds a Location from separate namespace and name,
// canonicalizing both.
func NewLocation(namespace, name string) Location {
	return Location{
		Namespace: DefaultInterner.Lower(namespace),
		Name:      DefaultInterner.Lower(name),
	}
}

// ParseLocation parses "namespace:name", defaulting the namespace to
// DefaultNamespace when absent.
func ParseLocation(combined string) Location {
	if namespace, name, ok := strings.Cut(combined, ":"); ok {
		return NewLocation(namespace, name)
	}
	return NewLocation(DefaultNamespace, combined)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return l.Namespace + ":" + l.Name
}

// IsZero reports whether the location is the zero value.
func (l Location) IsZero() bool {
	return l.Namespace == "" && l.Name == ""
}
