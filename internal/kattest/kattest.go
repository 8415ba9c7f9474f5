// Package kattest produces known-answer files for tests, following the
// procedure of NIST's PQCgenKAT generators: a master DRBG seeded with bytes
// 0..47 hands out one 48-byte seed per test case, and each case reseeds the
// generator with its own seed before key generation.
package kattest

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"katwalk/crypto/drbg"
	"katwalk/crypto/pqc/dilithium"
	"katwalk/crypto/pqc/kyber"
	"katwalk/kat/types"
)

// MasterEntropy is the entropy input PQCgenKAT seeds its master DRBG with.
func MasterEntropy() []byte {
	entropy := make([]byte, drbg.SeedSize)
	for i := range entropy {
		entropy[i] = byte(i)
	}
	return entropy
}

func master(t testing.TB) *drbg.CTR {
	t.Helper()
	rng, err := drbg.New(MasterEntropy())
	require.NoError(t, err)
	return rng
}

func draw(t testing.TB, rng *drbg.CTR, n int) []byte {
	t.Helper()
	out := make([]byte, n)
	_, err := rng.Read(out)
	require.NoError(t, err)
	return out
}

// SignatureVectors generates n signature vectors. Message i is 33*(i+1)
// bytes, as in PQCsignKAT files.
func SignatureVectors(t testing.TB, scheme dilithium.Scheme, n int) []*types.Vector {
	t.Helper()

	rng := master(t)
	seeds := make([][]byte, n)
	msgs := make([][]byte, n)
	for i := range n {
		seeds[i] = draw(t, rng, drbg.SeedSize)
		msgs[i] = draw(t, rng, 33*(i+1))
	}

	out := make([]*types.Vector, n)
	for i := range n {
		caseRNG, err := drbg.New(seeds[i])
		require.NoError(t, err)

		pk, sk, err := scheme.DeriveKey(draw(t, caseRNG, scheme.SeedSize()))
		require.NoError(t, err)
		sig, err := scheme.Sign(sk, msgs[i])
		require.NoError(t, err)

		out[i] = &types.Vector{
			Family: types.FamilySignature,
			Count:  uint64(i),
			Signature: &types.SignatureVector{
				Seed: seeds[i],
				Msg:  msgs[i],
				PK:   pk,
				SK:   sk,
				SM:   append(append([]byte{}, sig...), msgs[i]...),
			},
		}
	}
	return out
}

// KEMVectors generates n KEM vectors as in PQCkemKAT files.
func KEMVectors(t testing.TB, scheme kyber.Scheme, n int) []*types.Vector {
	t.Helper()

	rng := master(t)
	seeds := make([][]byte, n)
	for i := range n {
		seeds[i] = draw(t, rng, drbg.SeedSize)
	}

	out := make([]*types.Vector, n)
	for i := range n {
		caseRNG, err := drbg.New(seeds[i])
		require.NoError(t, err)

		half := scheme.SeedSize() / 2
		keySeed := append(draw(t, caseRNG, half), draw(t, caseRNG, half)...)
		pk, sk, err := scheme.DeriveKeyPair(keySeed)
		require.NoError(t, err)
		ct, ss, err := scheme.Encapsulate(pk, draw(t, caseRNG, scheme.EncapsulationSeedSize()))
		require.NoError(t, err)

		out[i] = &types.Vector{
			Family: types.FamilyKEM,
			Count:  uint64(i),
			KEM: &types.KEMVector{
				Seed: seeds[i],
				PK:   pk,
				SK:   sk,
				CT:   ct,
				SS:   ss,
			},
		}
	}
	return out
}

// AEADVectors generates n AES-GCM vectors with a 96-bit IV and a 128-bit tag
// under the returned section. Every odd vector is a FAIL case when withFail
// is set.
func AEADVectors(t testing.TB, keyBytes, ptBytes, aadBytes, n int, withFail bool) (types.Section, []*types.Vector) {
	t.Helper()

	const ivBytes, tagBytes = 12, 16
	section := types.Section{}.
		With("Keylen", strconv.Itoa(keyBytes*8)).
		With("IVlen", strconv.Itoa(ivBytes*8)).
		With("PTlen", strconv.Itoa(ptBytes*8)).
		With("AADlen", strconv.Itoa(aadBytes*8)).
		With("Taglen", strconv.Itoa(tagBytes*8))

	rng := master(t)
	out := make([]*types.Vector, n)
	for i := range n {
		key := draw(t, rng, keyBytes)
		iv := draw(t, rng, ivBytes)
		pt := draw(t, rng, ptBytes)
		aad := draw(t, rng, aadBytes)

		block, err := aes.NewCipher(key)
		require.NoError(t, err)
		gcm, err := cipher.NewGCM(block)
		require.NoError(t, err)
		sealed := gcm.Seal(nil, iv, pt, aad)

		av := &types.AEADVector{
			Key: key,
			IV:  iv,
			PT:  pt,
			AAD: aad,
			CT:  sealed[:ptBytes],
			Tag: sealed[ptBytes:],
		}
		if withFail && i%2 == 1 {
			av.Tag[0] ^= 0x01
			av.PT = nil
			av.Fail = true
		}
		out[i] = &types.Vector{Family: types.FamilyAEAD, Count: uint64(i), Section: section, AEAD: av}
	}
	return section, out
}

// Encode renders vectors as a vector file. A non-empty section is written
// as a header run before the first block.
func Encode(t testing.TB, comment string, section types.Section, vecs []*types.Vector) []byte {
	t.Helper()

	var buf bytes.Buffer
	if comment != "" {
		buf.WriteString("# " + comment + "\n\n")
	}
	if len(section) > 0 {
		require.NoError(t, types.EncodeSection(&buf, section))
	}
	for _, v := range vecs {
		require.NoError(t, v.Encode(&buf))
	}
	return buf.Bytes()
}

// WriteFile stores contents under dir/rel, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, rel string, contents []byte) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	return path
}
