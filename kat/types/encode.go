package types

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Encode writes v as one `key = value` block followed by a blank line, in the
// layout NIST's generators emit. Reading the output back yields a vector
// equal to v.
func (v *Vector) Encode(w io.Writer) error {
	bw := &blockWriter{w: w}

	switch v.Family {
	case FamilySignature:
		sv := v.Signature
		if sv == nil {
			return fmt.Errorf("encode: signature vector %d has no fields", v.Count)
		}
		bw.decimal(KeyCount, v.Count)
		bw.optionalHex(KeySeed, sv.Seed)
		bw.decimal(KeyMlen, uint64(len(sv.Msg)))
		bw.hex(KeyMsg, sv.Msg)
		bw.hex(KeyPK, sv.PK)
		bw.optionalHex(KeySK, sv.SK)
		bw.decimal(KeySmlen, uint64(len(sv.SM)))
		bw.hex(KeySM, sv.SM)
	case FamilyKEM:
		kv := v.KEM
		if kv == nil {
			return fmt.Errorf("encode: kem vector %d has no fields", v.Count)
		}
		bw.decimal(KeyCount, v.Count)
		bw.optionalHex(KeySeed, kv.Seed)
		bw.optionalHex(KeyPK, kv.PK)
		bw.hex(KeySK, kv.SK)
		bw.hex(KeyCT, kv.CT)
		bw.hex(KeySS, kv.SS)
	case FamilyAEAD:
		av := v.AEAD
		if av == nil {
			return fmt.Errorf("encode: aead vector %d has no fields", v.Count)
		}
		bw.decimal("Count", v.Count)
		bw.hex("Key", av.Key)
		bw.hex("IV", av.IV)
		if !av.Fail || av.PT != nil {
			bw.hex("PT", av.PT)
		}
		bw.hex("AAD", av.AAD)
		bw.hex("CT", av.CT)
		bw.hex("Tag", av.Tag)
		if av.Fail {
			bw.line("FAIL")
		}
	default:
		return fmt.Errorf("encode: unsupported family %s", v.Family)
	}

	bw.line("")
	return bw.err
}

// EncodeSection writes the header lines of s.
func EncodeSection(w io.Writer, s Section) error {
	bw := &blockWriter{w: w}
	for _, p := range s {
		if p.Value == "" {
			bw.line("[" + p.Name + "]")
			continue
		}
		bw.line(fmt.Sprintf("[%s = %s]", p.Name, p.Value))
	}
	bw.line("")
	return bw.err
}

type blockWriter struct {
	w   io.Writer
	err error
}

func (b *blockWriter) line(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s+"\n")
}

func (b *blockWriter) decimal(key string, n uint64) {
	b.line(fmt.Sprintf("%s = %d", key, n))
}

func (b *blockWriter) hex(key string, bz []byte) {
	b.line(key + " = " + strings.ToUpper(hex.EncodeToString(bz)))
}

func (b *blockWriter) optionalHex(key string, bz []byte) {
	if bz == nil {
		return
	}
	b.hex(key, bz)
}
