package types

const (
	// MaxLineBytes caps a single vector file line. The largest round-3 field
	// (a Dilithium5 signed message of a 3300-byte message) is under 16 KiB of
	// hex; anything near this bound is a corrupted file, not a vector.
	MaxLineBytes = 1 << 20
	// SchemeMaxLen keeps scheme identifiers short enough for log lines and
	// metric labels.
	SchemeMaxLen = 32
)
