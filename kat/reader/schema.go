package reader

import (
	"fmt"
	"strconv"

	"katwalk/kat/types"
)

type fieldKind uint8

const (
	kindDecimal fieldKind = iota + 1
	kindHex
	kindFlag
)

// schema describes the keys a family recognizes and how a completed block
// becomes a vector.
type schema struct {
	fields    map[string]fieldKind
	mandatory []string
	build     func(b *block, v *types.Vector) error
}

var schemas = map[types.Family]*schema{
	types.FamilySignature: {
		fields: map[string]fieldKind{
			types.KeyCount: kindDecimal,
			types.KeySeed:  kindHex,
			types.KeyMlen:  kindDecimal,
			types.KeyMsg:   kindHex,
			types.KeySmlen: kindDecimal,
			types.KeySM:    kindHex,
			types.KeyPK:    kindHex,
			types.KeySK:    kindHex,
		},
		mandatory: []string{types.KeyMsg, types.KeySM, types.KeyPK},
		build:     buildSignature,
	},
	types.FamilyKEM: {
		fields: map[string]fieldKind{
			types.KeyCount: kindDecimal,
			types.KeySeed:  kindHex,
			types.KeyPK:    kindHex,
			types.KeySK:    kindHex,
			types.KeyCT:    kindHex,
			types.KeySS:    kindHex,
		},
		mandatory: []string{types.KeySK, types.KeyCT, types.KeySS},
		build:     buildKEM,
	},
	types.FamilyAEAD: {
		fields: map[string]fieldKind{
			types.KeyCount: kindDecimal,
			types.KeyKey:   kindHex,
			types.KeyIV:    kindHex,
			types.KeyPT:    kindHex,
			types.KeyAAD:   kindHex,
			types.KeyCT:    kindHex,
			types.KeyTag:   kindHex,
			types.KeyFail:  kindFlag,
		},
		mandatory: []string{types.KeyKey, types.KeyIV, types.KeyCT, types.KeyTag},
		build:     buildAEAD,
	},
}

func buildSignature(b *block, v *types.Vector) error {
	if err := b.checkLength(types.KeyMlen, types.KeyMsg); err != nil {
		return err
	}
	if err := b.checkLength(types.KeySmlen, types.KeySM); err != nil {
		return err
	}
	sv := &types.SignatureVector{
		Seed: b.hex[types.KeySeed],
		Msg:  b.hex[types.KeyMsg],
		PK:   b.hex[types.KeyPK],
		SK:   b.hex[types.KeySK],
		SM:   b.hex[types.KeySM],
	}
	if len(sv.SM) < len(sv.Msg) {
		return fmt.Errorf("sm holds %d bytes, shorter than msg (%d bytes)", len(sv.SM), len(sv.Msg))
	}
	v.Signature = sv
	return nil
}

func buildKEM(b *block, v *types.Vector) error {
	v.KEM = &types.KEMVector{
		Seed: b.hex[types.KeySeed],
		PK:   b.hex[types.KeyPK],
		SK:   b.hex[types.KeySK],
		CT:   b.hex[types.KeyCT],
		SS:   b.hex[types.KeySS],
	}
	return nil
}

func buildAEAD(b *block, v *types.Vector) error {
	av := &types.AEADVector{
		Key:  b.hex[types.KeyKey],
		IV:   b.hex[types.KeyIV],
		PT:   b.hex[types.KeyPT],
		AAD:  b.hex[types.KeyAAD],
		CT:   b.hex[types.KeyCT],
		Tag:  b.hex[types.KeyTag],
		Fail: b.flags[types.KeyFail],
	}
	if av.PT == nil && !av.Fail {
		return fmt.Errorf("missing %s", types.KeyPT)
	}
	if av.AAD == nil {
		av.AAD = []byte{}
	}

	checks := []struct {
		param string
		field []byte
		skip  bool
	}{
		{"Keylen", av.Key, false},
		{"IVlen", av.IV, false},
		{"PTlen", av.PT, av.PT == nil},
		{"PTlen", av.CT, false},
		{"AADlen", av.AAD, false},
		{"Taglen", av.Tag, false},
	}
	for _, c := range checks {
		if c.skip {
			continue
		}
		if err := checkBits(b.section, c.param, c.field); err != nil {
			return err
		}
	}
	v.AEAD = av
	return nil
}

// checkBits cross-checks a field against a section parameter given in bits.
func checkBits(section types.Section, param string, field []byte) error {
	raw, ok := section.Get(param)
	if !ok {
		return nil
	}
	bits, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("section parameter %s = %q is not an unsigned decimal", param, raw)
	}
	if bits != uint64(len(field))*8 {
		return fmt.Errorf("section declares %s = %d but field holds %d bits", param, bits, len(field)*8)
	}
	return nil
}
