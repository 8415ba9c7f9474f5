package types

// Field names recognized in vector files. Keys compare case-insensitively.
const (
	KeyCount = "count"
	KeySeed  = "seed"
	KeyMlen  = "mlen"
	KeyMsg   = "msg"
	KeySmlen = "smlen"
	KeySM    = "sm"
	KeyPK    = "pk"
	KeySK    = "sk"
	KeyCT    = "ct"
	KeySS    = "ss"
	KeyKey   = "key"
	KeyIV    = "iv"
	KeyPT    = "pt"
	KeyAAD   = "aad"
	KeyTag   = "tag"
	KeyFail  = "fail"
)

// Vector is one test case: the fields of exactly one block of a vector file.
// Exactly one of Signature, KEM or AEAD is set, as selected by Family. Byte
// fields are owned by the vector and must not be modified by consumers.
type Vector struct {
	Family Family
	// Count is the block's `count` value, or its ordinal in the file when the
	// block has none.
	Count uint64
	// Line is the 1-based line number the block starts on.
	Line    int
	Section Section

	Signature *SignatureVector
	KEM       *KEMVector
	AEAD      *AEADVector
}

// SignatureVector holds the fields of a PQCsignKAT block.
type SignatureVector struct {
	Seed []byte
	Msg  []byte
	PK   []byte
	SK   []byte
	// SM is the signed message, signature followed by Msg.
	SM []byte
}

// Sig returns the detached signature prefix of SM.
func (s *SignatureVector) Sig() []byte {
	if len(s.SM) < len(s.Msg) {
		return nil
	}
	return s.SM[:len(s.SM)-len(s.Msg)]
}

// KEMVector holds the fields of a PQCkemKAT block.
type KEMVector struct {
	Seed []byte
	PK   []byte
	SK   []byte
	CT   []byte
	SS   []byte
}

// AEADVector holds the fields of a CAVP GCM block. Fail marks decryption
// vectors whose ciphertext must be rejected; they carry no PT.
type AEADVector struct {
	Key  []byte
	IV   []byte
	PT   []byte
	AAD  []byte
	CT   []byte
	Tag  []byte
	Fail bool
}
