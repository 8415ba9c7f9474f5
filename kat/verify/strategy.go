// Package verify holds the per-family checks a registration runs against each
// vector. The set of strategies is closed: one variant per family.
package verify

import (
	"bytes"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"katwalk/crypto/drbg"
	"katwalk/kat/boundary"
	"katwalk/kat/types"
)

// Strategy checks one vector against a primitive. Check is called with the
// boundary session held, and must not retain the vector.
type Strategy interface {
	Family() types.Family
	Check(s *boundary.Session, v *types.Vector) error

	sealed()
}

var (
	_ Strategy = SignatureCheck{}
	_ Strategy = KEMCheck{}
	_ Strategy = AEADCheck{}
)

func wrongFamily(want types.Family, v *types.Vector) error {
	return errorsmod.Wrapf(types.ErrUnsupportedVector, "%s check given a %s vector", want, v.Family)
}

func mismatch(field string, got, want []byte) error {
	return errorsmod.Wrapf(types.ErrVerificationFailed, "%s mismatch: got %s, want %s", field, abbrev(got), abbrev(want))
}

func failed(format string, args ...any) error {
	return errorsmod.Wrapf(types.ErrVerificationFailed, format, args...)
}

func compare(field string, got, want []byte) error {
	if !bytes.Equal(got, want) {
		return mismatch(field, got, want)
	}
	return nil
}

// abbrev prints at most the first 16 bytes of a field.
func abbrev(b []byte) string {
	const limit = 16
	if len(b) > limit {
		return fmt.Sprintf("%X...(%d bytes)", b[:limit], len(b))
	}
	return fmt.Sprintf("%X", b)
}

// replay reseeds the shared generator with a vector's seed so the primitive
// draws the bytes the reference generator drew.
func replay(s *boundary.Session, seed []byte) error {
	if len(seed) != drbg.SeedSize {
		return errorsmod.Wrapf(types.ErrMalformedVectorFile, "seed must be %d bytes, got %d", drbg.SeedSize, len(seed))
	}
	return s.Reseed(seed)
}

func drawN(s *boundary.Session, n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := s.Read(out); err != nil {
		return nil, err
	}
	return out, nil
}
