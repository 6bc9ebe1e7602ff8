package feature

import (
	"fmt"
	"log"
	"strings"
)

// Registry is the closed, ordered set of features. It is built once at
// process start and never mutated, so it is safe to read concurrently
// without synchronization. Declaration order is the dispatch order and the
// interaction-resolution order.
type Registry struct {
	features []Feature
}

// NewRegistry validates the feature set and returns an immutable registry.
// An empty registry is valid. Validation failures are programming errors:
// a nameless feature, an interactive feature with zero or several handler
// variants, or two features claiming the same interaction name.
func NewRegistry(features ...Feature) (*Registry, error) {
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if f == nil {
			return nil, fmt.Errorf("registry: nil feature")
		}
		if f.Name() == "" {
			return nil, fmt.Errorf("registry: feature with empty name (%T)", f)
		}
		if seen[f.Name()] {
			return nil, fmt.Errorf("registry: duplicate feature name %q", f.Name())
		}
		seen[f.Name()] = true

		if in, ok := f.(Interactive); ok {
			if err := validateInteractive(f, in.Interaction()); err != nil {
				return nil, err
			}
		}
	}

	warnings, err := validatePatterns(features)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("[WARN] %s", w)
	}

	list := make([]Feature, len(features))
	copy(list, features)
	return &Registry{features: list}, nil
}

// All returns the features in declaration order. Callers must not modify
// the returned slice.
func (r *Registry) All() []Feature {
	return r.features
}

// Len returns the number of registered features.
func (r *Registry) Len() int { return len(r.features) }

func validateInteractive(f Feature, in *Interaction) error {
	if in == nil || in.Name == "" {
		return fmt.Errorf("registry: feature %q declares an interaction without a name", f.Name())
	}

	variants := 0
	if _, ok := f.(SlashHandler); ok {
		variants++
	}
	if _, ok := f.(ButtonHandler); ok {
		variants++
	}
	if _, ok := f.(SelectHandler); ok {
		variants++
	}
	if _, ok := f.(ModalHandler); ok {
		variants++
	}
	if _, ok := f.(UserMenuHandler); ok {
		variants++
	}
	if _, ok := f.(MessageMenuHandler); ok {
		variants++
	}
	switch variants {
	case 0:
		return fmt.Errorf("registry: feature %q declares interaction %q but implements no handler variant", f.Name(), in.Name)
	case 1:
		return nil
	default:
		return fmt.Errorf("registry: feature %q implements %d handler variants, want exactly one", f.Name(), variants)
	}
}

// validatePatterns rejects duplicate interaction names outright. Prefix
// patterns that also match a later feature's name are legal — resolution is
// first match in registry order — but each such collision is reported so the
// order dependence is deliberate rather than silent.
func validatePatterns(features []Feature) ([]string, error) {
	type pattern struct {
		owner string
		name  string
	}
	var patterns []pattern
	for _, f := range features {
		in, ok := f.(Interactive)
		if !ok {
			continue
		}
		patterns = append(patterns, pattern{owner: f.Name(), name: in.Interaction().Name})
	}

	var warnings []string
	for i, a := range patterns {
		for _, b := range patterns[i+1:] {
			if a.name == b.name {
				return nil, fmt.Errorf("registry: features %q and %q both claim interaction name %q", a.owner, b.owner, a.name)
			}
			if shadows(a.name, b.name) {
				warnings = append(warnings,
					fmt.Sprintf("registry: pattern %q (feature %q) shadows %q (feature %q); the earlier feature wins",
						a.name, a.owner, b.name, b.owner))
			}
		}
	}
	return warnings, nil
}

// shadows reports whether every name matched by second is also matched by
// first. first wins in registry order, making second unreachable.
func shadows(first, second string) bool {
	prefix, wild := strings.CutSuffix(first, "*")
	if !wild {
		return false
	}
	return strings.HasPrefix(strings.TrimSuffix(second, "*"), prefix)
}

// Matches reports whether an interaction pattern matches an identifying
// name: literal equality, or prefix match for patterns ending in "*".
func Matches(pattern, name string) bool {
	if prefix, wild := strings.CutSuffix(pattern, "*"); wild {
		return strings.HasPrefix(name, prefix)
	}
	return pattern == name
}
