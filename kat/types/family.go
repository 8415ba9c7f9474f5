package types

import (
	"fmt"
	"strings"
)

// Family selects the field schema of a vector file and the verification
// contract applied to its vectors.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilySignature
	FamilyKEM
	FamilyAEAD
)

func (f Family) String() string {
	switch f {
	case FamilySignature:
		return "signature"
	case FamilyKEM:
		return "kem"
	case FamilyAEAD:
		return "aead"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// ParseFamily is the inverse of Family.String.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signature":
		return FamilySignature, nil
	case "kem":
		return FamilyKEM, nil
	case "aead":
		return FamilyAEAD, nil
	}
	return FamilyUnknown, fmt.Errorf("unknown vector family %q", s)
}
