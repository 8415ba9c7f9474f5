// Package registry is the table of known-answer files the harness runs: which
// file to read, how to interpret it and which check to run on every vector.
package registry

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"katwalk/kat/types"
	"katwalk/kat/verify"
)

// Registration binds one vector file to the check that runs on its vectors.
type Registration struct {
	Family types.Family
	// Scheme is the stable identifier used on the command line and in logs.
	Scheme string
	// Selector picks the blocks of a multi-parameter-set file that belong to
	// Scheme. Empty means every block.
	Selector string
	// Path is relative to the vector root and uses forward slashes.
	Path  string
	Check verify.Strategy
}

func (r Registration) String() string {
	if r.Selector == "" {
		return fmt.Sprintf("%s %s (%s)", r.Family, r.Scheme, r.Path)
	}
	return fmt.Sprintf("%s %s (%s, %s)", r.Family, r.Scheme, r.Path, r.Selector)
}

// Registry is an ordered, immutable table of registrations.
type Registry struct {
	entries []Registration
}

// New builds a registry from entries in the given order.
func New(entries ...Registration) Registry {
	return Registry{entries: append([]Registration(nil), entries...)}
}

// Entries returns a copy of the table in execution order.
func (r Registry) Entries() []Registration {
	return append([]Registration(nil), r.entries...)
}

func (r Registry) Len() int { return len(r.entries) }

// Lookup finds a registration by scheme identifier.
func (r Registry) Lookup(scheme string) (Registration, bool) {
	for _, e := range r.entries {
		if strings.EqualFold(e.Scheme, scheme) {
			return e, true
		}
	}
	return Registration{}, false
}

// Select narrows the registry to the named schemes, keeping registry order.
// No names selects everything.
func (r Registry) Select(schemes ...string) (Registry, error) {
	if len(schemes) == 0 {
		return r, nil
	}

	want := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		name := strings.ToLower(strings.TrimSpace(s))
		if _, ok := r.Lookup(name); !ok {
			return Registry{}, errorsmod.Wrapf(types.ErrUnknownScheme, "%q (known: %s)", s, strings.Join(r.Schemes(), ", "))
		}
		want[name] = true
	}

	var out []Registration
	for _, e := range r.entries {
		if want[strings.ToLower(e.Scheme)] {
			out = append(out, e)
		}
	}
	return Registry{entries: out}, nil
}

// Schemes lists the scheme identifiers in registry order.
func (r Registry) Schemes() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Scheme
	}
	return out
}

// Validate checks that every registration is complete and that no
// (family, scheme, selector) triple appears twice.
func (r Registry) Validate() error {
	type key struct {
		family   types.Family
		scheme   string
		selector string
	}
	seen := make(map[key]int, len(r.entries))

	for i, e := range r.entries {
		switch {
		case e.Scheme == "" || len(e.Scheme) > types.SchemeMaxLen:
			return fmt.Errorf("registration %d: scheme identifier must be 1-%d bytes", i, types.SchemeMaxLen)
		case e.Path == "":
			return fmt.Errorf("registration %d (%s): empty path", i, e.Scheme)
		case e.Check == nil:
			return fmt.Errorf("registration %d (%s): no check", i, e.Scheme)
		case e.Check.Family() != e.Family:
			return fmt.Errorf("registration %d (%s): %s check on a %s file", i, e.Scheme, e.Check.Family(), e.Family)
		}
		if _, err := types.ParseSelector(e.Selector); err != nil {
			return fmt.Errorf("registration %d (%s): %w", i, e.Scheme, err)
		}

		k := key{e.Family, strings.ToLower(e.Scheme), e.Selector}
		if first, dup := seen[k]; dup {
			return errorsmod.Wrapf(types.ErrDuplicateRegistration, "%s at positions %d and %d", e, first, i)
		}
		seen[k] = i
	}
	return nil
}
