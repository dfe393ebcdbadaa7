package subagent

import (
	"fmt"
	"strings"
)

// Registry is the name-indexed set of resolved subagent definitions. It is
// built once at configuration time and read-only afterward, so lookups need
// no locking.
type Registry struct {
	defs  map[string]Definition
	order []string // first-registration name order, for stable listings
}

// BuildRegistry resolves every reference through the configured types and
// indexes the definitions by name.
//
// Two types claiming the same kind and a reference no resolver claims are
// both hard configuration errors, reported here rather than at first use.
// Two definitions resolving to the same name are not: the later reference
// wins, matching definition order.
func BuildRegistry(refs []Reference, types []Type) (*Registry, error) {
	if err := checkDistinctKinds(types); err != nil {
		return nil, err
	}

	r := &Registry{defs: make(map[string]Definition)}
	for _, ref := range refs {
		def, err := resolve(ref, types)
		if err != nil {
			return nil, err
		}
		if _, seen := r.defs[def.Name()]; !seen {
			r.order = append(r.order, def.Name())
		}
		r.defs[def.Name()] = def
	}
	return r, nil
}

// resolve scans the types in order and applies the first resolver that
// claims the reference's kind.
func resolve(ref Reference, types []Type) (Definition, error) {
	for _, t := range types {
		if t.Resolver == nil || !t.Resolver.CanResolve(ref) {
			continue
		}
		def, err := t.Resolver.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("subagent: resolving %q (kind %s): %w", ref.URI, ref.Kind, err)
		}
		return def, nil
	}
	return nil, fmt.Errorf("%w: kind %q (reference %q)", ErrUnresolvedReference, ref.Kind, ref.URI)
}

func checkDistinctKinds(types []Type) error {
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		kind := t.Kind()
		if seen[kind] {
			return fmt.Errorf("%w: %q", ErrDuplicateKind, kind)
		}
		seen[kind] = true
	}
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered subagent names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Registrations renders one "-name: /description" line per definition, in
// registration order, for embedding into a Task tool description.
func (r *Registry) Registrations() string {
	lines := make([]string, 0, len(r.order))
	for _, name := range r.order {
		lines = append(lines, RegistrationLine(r.defs[name]))
	}
	return strings.Join(lines, "\n")
}
