package dilithium

// PublicKey represents a Dilithium public key.
type PublicKey []byte

// PrivateKey represents a Dilithium private key.
type PrivateKey []byte

// Signature represents a detached Dilithium signature.
type Signature []byte

const (
	AlgoDilithium2 = "dilithium2"
	AlgoDilithium3 = "dilithium3"
	AlgoDilithium5 = "dilithium5"

	BackendCircl   = "circl"
	BackendPQClean = "pqclean"
)

// Status codes returned by Open. They follow the crypto_sign_open convention
// of the NIST API: zero accepts, anything else rejects.
const (
	StatusOK       = 0
	StatusRejected = -1
)

// Scheme defines the interface implemented by Dilithium backends.
type Scheme interface {
	// Name returns the parameter set identifier (e.g. "dilithium2").
	Name() string
	PublicKeySize() int
	PrivateKeySize() int
	SignatureSize() int
	// SeedSize is the number of randombytes() output bytes key generation
	// consumes.
	SeedSize() int

	// DeriveKey expands a SeedSize seed into a key pair.
	DeriveKey(seed []byte) (PublicKey, PrivateKey, error)
	// Sign produces a deterministic detached signature.
	Sign(priv PrivateKey, msg []byte) (Signature, error)
	Verify(pub PublicKey, msg []byte, sig Signature) bool

	// Open verifies the signed message sm (signature followed by message)
	// under pub and copies the recovered message into m. It returns the
	// recovered length and a status code; m must hold at least len(sm) bytes.
	Open(m, sm []byte, pub PublicKey) (mlen int, status int)
}

// Algorithms lists the parameter sets New accepts.
func Algorithms() []string {
	return []string{AlgoDilithium2, AlgoDilithium3, AlgoDilithium5}
}
