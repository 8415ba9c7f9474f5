package kyber

import "fmt"

// PublicKey represents a Kyber encapsulation key.
type PublicKey []byte

// PrivateKey represents a Kyber decapsulation key.
type PrivateKey []byte

const (
	AlgoKyber512  = "kyber512"
	AlgoKyber768  = "kyber768"
	AlgoKyber1024 = "kyber1024"
)

// ErrUnknownAlgorithm indicates a parameter set name no backend recognizes.
var ErrUnknownAlgorithm = fmt.Errorf("pqc: unknown kyber parameter set")

// Scheme defines the interface implemented by Kyber backends.
type Scheme interface {
	Name() string
	PublicKeySize() int
	PrivateKeySize() int
	CiphertextSize() int
	SharedKeySize() int
	// SeedSize is the randomness crypto_kem_keypair consumes: two
	// randombytes() draws of SeedSize/2 bytes each.
	SeedSize() int
	// EncapsulationSeedSize is the randomness crypto_kem_enc consumes.
	EncapsulationSeedSize() int

	DeriveKeyPair(seed []byte) (PublicKey, PrivateKey, error)
	Encapsulate(pub PublicKey, seed []byte) (ct, ss []byte, err error)
	Decapsulate(priv PrivateKey, ct []byte) ([]byte, error)
}

// Algorithms lists the parameter sets New accepts.
func Algorithms() []string {
	return []string{AlgoKyber512, AlgoKyber768, AlgoKyber1024}
}
