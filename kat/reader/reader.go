// Package reader streams the test vectors of a NIST-style .rsp file.
//
// A file is a sequence of blocks separated by blank lines. Each block is a set
// of `key = value` lines describing one test case; `#` lines are comments and
// bracketed `[name = value]` lines set parameters for the blocks that follow.
// Values are uppercase or lowercase hex, except counts and lengths, which are
// decimal.
package reader

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"katwalk/kat/types"
)

var errLineTooLong = errors.New("line too long")

// Reader yields the vectors of one file lazily. It holds at most one line and
// one partially assembled block in memory.
type Reader struct {
	br     *bufio.Reader
	parser *parser
	line   int
	err    error
}

// New returns a Reader over r for the given family. selector restricts the
// yielded vectors to the blocks whose section parameters match; an empty
// selector yields every block.
func New(r io.Reader, family types.Family, selector string) *Reader {
	rd := &Reader{}
	if br, ok := r.(*bufio.Reader); ok {
		rd.br = br
	} else {
		rd.br = bufio.NewReader(r)
	}

	sel, err := types.ParseSelector(selector)
	if err != nil {
		rd.err = errorsmod.Wrap(types.ErrUnsupportedVector, err.Error())
		return rd
	}
	rd.parser, rd.err = newParser(family, sel)
	return rd
}

// Next returns the next vector, or io.EOF once the stream is exhausted. Any
// other error is sticky: later calls return it again.
func (r *Reader) Next() (*types.Vector, error) {
	for r.err == nil {
		raw, got, readErr := r.readLine()
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			if errors.Is(readErr, errLineTooLong) {
				r.err = malformed(r.line+1, "exceeds %d bytes", types.MaxLineBytes)
			} else {
				r.err = errorsmod.Wrapf(types.ErrVectorFileUnreadable, "line %d: %v", r.line+1, readErr)
			}
			return nil, r.err
		}

		if got {
			r.line++
			v, err := r.parser.feed(raw, r.line)
			if err != nil {
				r.err = err
				return nil, err
			}
			if v != nil {
				return v, nil
			}
		}

		if errors.Is(readErr, io.EOF) {
			v, err := r.parser.finish()
			if err != nil {
				r.err = err
				return nil, err
			}
			r.err = io.EOF
			if v != nil {
				return v, nil
			}
		}
	}
	return nil, r.err
}

// All adapts the Reader to a range-over-func loop. Iteration stops after the
// first error, which is yielded with a nil vector; io.EOF is not yielded.
func (r *Reader) All() iter.Seq2[*types.Vector, error] {
	return func(yield func(*types.Vector, error) bool) {
		for {
			v, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// readLine returns the next line without its terminator and whether any bytes
// were consumed. A final line without a newline comes back with io.EOF.
func (r *Reader) readLine() (string, bool, error) {
	var buf []byte
	for {
		chunk, err := r.br.ReadSlice('\n')
		if len(buf)+len(chunk) > types.MaxLineBytes {
			return "", false, errLineTooLong
		}
		buf = append(buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return strings.TrimRight(string(buf), "\r\n"), len(buf) > 0, err
	}
}
