//go:build !pqclean

package dilithium

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCirclSchemeRoundTrip(t *testing.T) {
	for _, algo := range Algorithms() {
		t.Run(algo, func(t *testing.T) {
			scheme, err := newCirclScheme(algo)
			if err != nil {
				t.Skipf("circl backend unavailable: %v", err)
			}

			ms, ok := scheme.(*modeScheme)
			if !ok {
				t.Fatalf("unexpected scheme type %T", scheme)
			}

			seed := bytes.Repeat([]byte{0x42}, ms.scheme.SeedSize())
			pub, priv, err := scheme.DeriveKey(seed)
			if err != nil {
				t.Fatalf("DeriveKey failed: %v", err)
			}
			if len(pub) != scheme.PublicKeySize() {
				t.Fatalf("unexpected public key size: got %d want %d", len(pub), scheme.PublicKeySize())
			}
			if len(priv) != scheme.PrivateKeySize() {
				t.Fatalf("unexpected private key size: got %d want %d", len(priv), scheme.PrivateKeySize())
			}

			msg := []byte("circl backend sign/verify test")
			sig, err := scheme.Sign(priv, msg)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if len(sig) != scheme.SignatureSize() {
				t.Fatalf("unexpected signature size: got %d want %d", len(sig), scheme.SignatureSize())
			}
			if ok := scheme.Verify(pub, msg, sig); !ok {
				t.Fatal("Verify rejected valid signature")
			}

			badSig := append([]byte{}, sig...)
			badSig[0] ^= 0xFF
			if ok := scheme.Verify(pub, msg, badSig); ok {
				t.Fatal("Verify accepted tampered signature")
			}

			if _, err := scheme.Sign(PrivateKey(priv[:len(priv)-1]), msg); err == nil {
				t.Fatal("expected error for truncated private key")
			}
			if ok := scheme.Verify(PublicKey(pub[:len(pub)-1]), msg, sig); ok {
				t.Fatal("expected failure for truncated public key")
			}
			if ok := scheme.Verify(pub, msg, Signature(sig[:len(sig)-1])); ok {
				t.Fatal("expected failure for truncated signature")
			}
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	scheme, err := New(AlgoDilithium2)
	require.NoError(t, err)

	seed := bytes.Repeat([]byte{0x07}, scheme.SeedSize())
	pub1, priv1, err := scheme.DeriveKey(seed)
	require.NoError(t, err)
	pub2, priv2, err := scheme.DeriveKey(seed)
	require.NoError(t, err)
	require.Equal(t, pub1, pub2)
	require.Equal(t, priv1, priv2)

	sig1, err := scheme.Sign(priv1, []byte("kat"))
	require.NoError(t, err)
	sig2, err := scheme.Sign(priv2, []byte("kat"))
	require.NoError(t, err)
	require.Equal(t, sig1, sig2, "signing must be deterministic for KAT replay")

	_, _, err = scheme.DeriveKey(seed[1:])
	require.Error(t, err)
}

func signedMessage(t *testing.T, scheme Scheme, msg []byte) ([]byte, PublicKey) {
	t.Helper()

	pub, priv, err := scheme.DeriveKey(bytes.Repeat([]byte{0x11}, scheme.SeedSize()))
	require.NoError(t, err)
	sig, err := scheme.Sign(priv, msg)
	require.NoError(t, err)
	return append(append([]byte{}, sig...), msg...), pub
}

func TestOpenRecoversMessage(t *testing.T) {
	scheme, err := New(AlgoDilithium2)
	require.NoError(t, err)

	msg := []byte("crypto_sign_open recovers the message")
	sm, pub := signedMessage(t, scheme, msg)

	m := make([]byte, len(sm))
	mlen, status := scheme.Open(m, sm, pub)
	require.Equal(t, StatusOK, status)
	require.Equal(t, len(msg), mlen)
	require.Equal(t, msg, m[:mlen])
}

func TestOpenRejects(t *testing.T) {
	scheme, err := New(AlgoDilithium2)
	require.NoError(t, err)

	msg := []byte("tamper me")
	sm, pub := signedMessage(t, scheme, msg)

	cases := map[string]func() ([]byte, []byte, PublicKey){
		"tampered message": func() ([]byte, []byte, PublicKey) {
			bad := append([]byte{}, sm...)
			bad[len(bad)-1] ^= 0x01
			return make([]byte, len(bad)), bad, pub
		},
		"tampered signature": func() ([]byte, []byte, PublicKey) {
			bad := append([]byte{}, sm...)
			bad[3] ^= 0x80
			return make([]byte, len(bad)), bad, pub
		},
		"shorter than a signature": func() ([]byte, []byte, PublicKey) {
			return make([]byte, len(sm)), sm[:scheme.SignatureSize()-1], pub
		},
		"truncated public key": func() ([]byte, []byte, PublicKey) {
			return make([]byte, len(sm)), sm, pub[:len(pub)-1]
		},
		"output buffer too small": func() ([]byte, []byte, PublicKey) {
			return make([]byte, len(msg)-1), sm, pub
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			m, in, pk := build()
			mlen, status := scheme.Open(m, in, pk)
			require.NotEqual(t, StatusOK, status)
			require.Zero(t, mlen)
		})
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := New("dilithium4")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownAlgorithm))
}

func TestBackendIsCircl(t *testing.T) {
	require.Equal(t, BackendCircl, Backend())

	scheme, err := New(" Dilithium3 ")
	require.NoError(t, err)
	ms, ok := scheme.(*modeScheme)
	if !ok {
		t.Fatalf("expected circl modeScheme, got %T", scheme)
	}
	require.Equal(t, AlgoDilithium3, ms.algoID)
}
