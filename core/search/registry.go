package search

import (
	"fmt"
	"strings"
)

// DefaultIndexes is the registry used when none is configured.
var DefaultIndexes = []string{"projects", "samples", "illumina_runs"}

// Registry is the validated, ordered set of index names that may be searched.
type Registry struct {
	names []string
	known map[string]struct{}
}

// NewRegistry validates names and builds a Registry from them. Names must be
// unique, lowercase and free of whitespace and commas.
func NewRegistry(names ...string) (Registry, error) {
	if len(names) == 0 {
		return Registry{}, ErrEmptyRegistry
	}

	r := Registry{
		names: make([]string, 0, len(names)),
		known: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if err := validateIndexName(name); err != nil {
			return Registry{}, err
		}
		if _, dup := r.known[name]; dup {
			return Registry{}, fmt.Errorf("index registry: duplicate index %q", name)
		}
		r.known[name] = struct{}{}
		r.names = append(r.names, name)
	}
	return r, nil
}

func validateIndexName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("index registry: empty index name")
	case name != strings.ToLower(name):
		return fmt.Errorf("index registry: index %q must be lowercase", name)
	case strings.ContainsAny(name, ", \t\r\n"):
		return fmt.Errorf("index registry: index %q contains whitespace or comma", name)
	}
	return nil
}

func (r Registry) Contains(name string) bool {
	_, ok := r.known[name]
	return ok
}

// Names returns the registered index names in configuration order.
func (r Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Registry) Len() int { return len(r.names) }

// CheckConsistency verifies that every write-path target points at a
// registered index. targets maps an entity kind to its index name.
func (r Registry) CheckConsistency(targets map[string]string) error {
	unregistered := map[string]string{}
	for target, index := range targets {
		if !r.Contains(index) {
			unregistered[target] = index
		}
	}
	if len(unregistered) == 0 {
		return nil
	}
	return ConsistencyError{Unregistered: unregistered, Registered: r.Names()}
}
