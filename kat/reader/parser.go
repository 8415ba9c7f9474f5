package reader

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"katwalk/kat/types"
)

type state uint8

const (
	// stateAwaitingKey: no block is open; blank lines and comments are skipped.
	stateAwaitingKey state = iota
	// stateInHeader: a run of section headers is being read. Blank lines keep
	// the run open so `[ENCRYPT]`, blank, `[Keylen = 128]` forms one section.
	stateInHeader
	// stateInBlock: fields are accumulating into the current block.
	stateInBlock
)

// block accumulates the fields of one block before it is validated.
type block struct {
	line    int
	section types.Section
	seen    map[string]int
	hex     map[string][]byte
	dec     map[string]uint64
	flags   map[string]bool
}

func newBlock(line int, section types.Section) *block {
	return &block{
		line:    line,
		section: section,
		seen:    make(map[string]int),
		hex:     make(map[string][]byte),
		dec:     make(map[string]uint64),
		flags:   make(map[string]bool),
	}
}

func (b *block) has(key string) bool {
	_, ok := b.seen[key]
	return ok
}

// checkLength cross-checks a decimal length field against a hex field.
func (b *block) checkLength(lenKey, dataKey string) error {
	n, ok := b.dec[lenKey]
	if !ok {
		return nil
	}
	if got := uint64(len(b.hex[dataKey])); n != got {
		return fmt.Errorf("%s = %d but %s holds %d bytes", lenKey, n, dataKey, got)
	}
	return nil
}

// parser turns lines into vectors, one completed block at a time.
type parser struct {
	family   types.Family
	schema   *schema
	selector types.Selector

	state   state
	section types.Section
	cur     *block
	ordinal uint64
}

func newParser(family types.Family, selector types.Selector) (*parser, error) {
	sc, ok := schemas[family]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnsupportedVector, "no schema for family %s", family)
	}
	return &parser{family: family, schema: sc, selector: selector}, nil
}

// feed consumes one line. It returns a vector when the line completes a block
// that the selector accepts.
func (p *parser) feed(raw string, lineNo int) (*types.Vector, error) {
	line := strings.TrimSpace(raw)

	switch {
	case line == "":
		if p.state == stateInBlock {
			return p.flush()
		}
		return nil, nil

	case strings.HasPrefix(line, "#"):
		return nil, nil

	case strings.HasPrefix(line, "["):
		var (
			v   *types.Vector
			err error
		)
		if p.state == stateInBlock {
			if v, err = p.flush(); err != nil {
				return nil, err
			}
		}
		if p.state != stateInHeader {
			p.section = nil
			p.state = stateInHeader
		}
		if err := p.header(line, lineNo); err != nil {
			return nil, err
		}
		return v, nil

	default:
		return nil, p.field(line, lineNo)
	}
}

// finish flushes the block left open at end of stream.
func (p *parser) finish() (*types.Vector, error) {
	if p.state != stateInBlock {
		return nil, nil
	}
	return p.flush()
}

func (p *parser) header(line string, lineNo int) error {
	if !strings.HasSuffix(line, "]") {
		return malformed(lineNo, "unterminated section header %s", quote(line))
	}
	body := strings.TrimSpace(line[1 : len(line)-1])
	name, value, _ := strings.Cut(body, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" {
		return malformed(lineNo, "empty section header")
	}
	p.section = p.section.With(name, value)
	return nil
}

func (p *parser) field(line string, lineNo int) error {
	key, value, hasValue := strings.Cut(line, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	kind, known := p.schema.fields[key]
	switch {
	case !hasValue && !(known && kind == kindFlag):
		return malformed(lineNo, "expected key = value, got %s", quote(line))
	case hasValue && kind == kindFlag:
		return malformed(lineNo, "flag %s takes no value", key)
	case !known:
		return nil
	}

	if p.state != stateInBlock {
		p.cur = newBlock(lineNo, p.section)
		p.state = stateInBlock
	}
	if first, dup := p.cur.seen[key]; dup {
		return malformed(lineNo, "duplicate %s (first on line %d)", key, first)
	}
	p.cur.seen[key] = lineNo

	switch kind {
	case kindDecimal:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return malformed(lineNo, "%s: %s is not an unsigned decimal", key, quote(value))
		}
		p.cur.dec[key] = n
	case kindHex:
		bz, err := hex.DecodeString(value)
		if err != nil {
			return malformed(lineNo, "%s: %v", key, err)
		}
		p.cur.hex[key] = bz
	case kindFlag:
		p.cur.flags[key] = true
	}
	return nil
}

// flush validates the open block and returns it as a vector, or nil when the
// selector skips it.
func (p *parser) flush() (*types.Vector, error) {
	b := p.cur
	p.cur = nil
	p.state = stateAwaitingKey

	count, ok := b.dec[types.KeyCount]
	if !ok {
		count = p.ordinal
	}
	p.ordinal++

	for _, key := range p.schema.mandatory {
		if !b.has(key) {
			return nil, blockError(b, count, "missing %s", key)
		}
	}

	v := &types.Vector{
		Family:  p.family,
		Count:   count,
		Line:    b.line,
		Section: b.section,
	}
	if err := p.schema.build(b, v); err != nil {
		return nil, blockError(b, count, "%v", err)
	}
	if !p.selector.Matches(v.Section) {
		return nil, nil
	}
	return v, nil
}

func malformed(line int, format string, args ...any) error {
	return errorsmod.Wrapf(types.ErrMalformedVectorFile, "line %d: "+format, append([]any{line}, args...)...)
}

func blockError(b *block, count uint64, format string, args ...any) error {
	return errorsmod.Wrapf(types.ErrMalformedVectorFile, "block at line %d (count = %d): "+format,
		append([]any{b.line, count}, args...)...)
}

// quote keeps diagnostics readable when a corrupted line is huge.
func quote(s string) string {
	const limit = 64
	if len(s) > limit {
		return strconv.Quote(s[:limit]) + "..."
	}
	return strconv.Quote(s)
}
