package types

import (
	"fmt"
	"strings"
)

// Param is one bracketed `[name = value]` header line of a vector file.
type Param struct {
	Name  string
	Value string
}

// Section is the ordered set of header parameters in force for a block.
// CAVP files use sections to group vectors by parameter set; the PQC round-3
// files have none.
type Section []Param

// Get looks a parameter up by case-insensitive name.
func (s Section) Get(name string) (string, bool) {
	for _, p := range s {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// With returns a copy of s with name set to value, replacing an earlier
// parameter of the same name.
func (s Section) With(name, value string) Section {
	out := make(Section, 0, len(s)+1)
	for _, p := range s {
		if !strings.EqualFold(p.Name, name) {
			out = append(out, p)
		}
	}
	return append(out, Param{Name: name, Value: value})
}

func (s Section) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		if p.Value == "" {
			parts[i] = "[" + p.Name + "]"
			continue
		}
		parts[i] = fmt.Sprintf("[%s = %s]", p.Name, p.Value)
	}
	return strings.Join(parts, "")
}

// Selector picks the blocks of a multi-parameter-set file that belong to one
// scheme. The zero Selector matches every block.
type Selector struct {
	terms []Param
}

// ParseSelector reads a comma-separated list of `name = value` terms; a block
// matches when its section carries every term. Values compare exactly, names
// case-insensitively.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	if strings.TrimSpace(s) == "" {
		return sel, nil
	}
	for _, term := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(term, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" {
			return Selector{}, fmt.Errorf("selector term %q is not name = value", strings.TrimSpace(term))
		}
		sel.terms = append(sel.terms, Param{Name: name, Value: value})
	}
	return sel, nil
}

// Matches reports whether a block under section belongs to the selection.
func (sel Selector) Matches(section Section) bool {
	for _, term := range sel.terms {
		v, ok := section.Get(term.Name)
		if !ok || v != term.Value {
			return false
		}
	}
	return true
}

// IsZero reports whether the selector matches everything.
func (sel Selector) IsZero() bool { return len(sel.terms) == 0 }

func (sel Selector) String() string {
	parts := make([]string, len(sel.terms))
	for i, t := range sel.terms {
		parts[i] = t.Name + " = " + t.Value
	}
	return strings.Join(parts, ", ")
}
