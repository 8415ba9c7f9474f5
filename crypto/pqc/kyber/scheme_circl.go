package kyber

import (
	"fmt"
	"strings"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"github.com/cloudflare/circl/kem/kyber/kyber512"
	"github.com/cloudflare/circl/kem/kyber/kyber768"
)

var circlModes = map[string]func() kem.Scheme{
	AlgoKyber512:  kyber512.Scheme,
	AlgoKyber768:  kyber768.Scheme,
	AlgoKyber1024: kyber1024.Scheme,
}

// New returns the circl implementation of the named parameter set.
func New(name string) (Scheme, error) {
	algo := strings.ToLower(strings.TrimSpace(name))
	mode, ok := circlModes[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	sch := mode()
	if sch == nil {
		return nil, fmt.Errorf("kyber: circl scheme %s unavailable", algo)
	}
	return &circlScheme{scheme: sch, algoID: algo}, nil
}

type circlScheme struct {
	scheme kem.Scheme
	algoID string
}

func (s *circlScheme) Name() string               { return s.algoID }
func (s *circlScheme) PublicKeySize() int         { return s.scheme.PublicKeySize() }
func (s *circlScheme) PrivateKeySize() int        { return s.scheme.PrivateKeySize() }
func (s *circlScheme) CiphertextSize() int        { return s.scheme.CiphertextSize() }
func (s *circlScheme) SharedKeySize() int         { return s.scheme.SharedKeySize() }
func (s *circlScheme) SeedSize() int              { return s.scheme.SeedSize() }
func (s *circlScheme) EncapsulationSeedSize() int { return s.scheme.EncapsulationSeedSize() }

func (s *circlScheme) DeriveKeyPair(seed []byte) (PublicKey, PrivateKey, error) {
	if len(seed) != s.scheme.SeedSize() {
		return nil, nil, fmt.Errorf("kyber: seed must be %d bytes", s.scheme.SeedSize())
	}

	pk, sk := s.scheme.DeriveKeyPair(seed)
	pubBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: marshal public key: %w", err)
	}
	privBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: marshal private key: %w", err)
	}
	return PublicKey(pubBytes), PrivateKey(privBytes), nil
}

func (s *circlScheme) Encapsulate(pub PublicKey, seed []byte) ([]byte, []byte, error) {
	if len(pub) != s.scheme.PublicKeySize() {
		return nil, nil, fmt.Errorf("kyber: public key must be %d bytes", s.scheme.PublicKeySize())
	}
	if len(seed) != s.scheme.EncapsulationSeedSize() {
		return nil, nil, fmt.Errorf("kyber: encapsulation seed must be %d bytes", s.scheme.EncapsulationSeedSize())
	}

	pk, err := s.scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: invalid public key: %w", err)
	}
	ct, ss, err := s.scheme.EncapsulateDeterministically(pk, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: encapsulate: %w", err)
	}
	return ct, ss, nil
}

func (s *circlScheme) Decapsulate(priv PrivateKey, ct []byte) ([]byte, error) {
	if len(priv) != s.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("kyber: private key must be %d bytes", s.scheme.PrivateKeySize())
	}
	if len(ct) != s.scheme.CiphertextSize() {
		return nil, fmt.Errorf("kyber: ciphertext must be %d bytes", s.scheme.CiphertextSize())
	}

	sk, err := s.scheme.UnmarshalBinaryPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("kyber: invalid private key: %w", err)
	}
	ss, err := s.scheme.Decapsulate(sk, ct)
	if err != nil {
		return nil, fmt.Errorf("kyber: decapsulate: %w", err)
	}
	return ss, nil
}
