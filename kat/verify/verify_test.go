package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"katwalk/crypto/pqc/dilithium"
	"katwalk/crypto/pqc/kyber"
	"katwalk/internal/kattest"
	"katwalk/kat/boundary"
	"katwalk/kat/types"
)

func session(t *testing.T) *boundary.Session {
	t.Helper()
	s, err := boundary.New().Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func clone(b []byte) []byte { return append([]byte{}, b...) }

func TestSignatureCheckAcceptsGeneratedVectors(t *testing.T) {
	for _, algo := range dilithium.Algorithms() {
		t.Run(algo, func(t *testing.T) {
			scheme, err := dilithium.New(algo)
			require.NoError(t, err)

			check := SignatureCheck{Scheme: scheme, KeyGen: true, Sign: true}
			s := session(t)
			for _, v := range kattest.SignatureVectors(t, scheme, 2) {
				require.NoError(t, check.Check(s, v))
			}
		})
	}
}

func TestSignatureCheckRejects(t *testing.T) {
	scheme, err := dilithium.New(dilithium.AlgoDilithium2)
	require.NoError(t, err)
	base := kattest.SignatureVectors(t, scheme, 1)[0]

	cases := map[string]struct {
		mutate func(sv *types.SignatureVector)
		check  SignatureCheck
		want   error
	}{
		"tampered signed message": {
			mutate: func(sv *types.SignatureVector) { sv.SM[10] ^= 0x01 },
			check:  SignatureCheck{Scheme: scheme},
			want:   types.ErrVerificationFailed,
		},
		"message differs from sm": {
			mutate: func(sv *types.SignatureVector) { sv.Msg[0] ^= 0x01 },
			check:  SignatureCheck{Scheme: scheme},
			want:   types.ErrVerificationFailed,
		},
		"pk not derived from seed": {
			mutate: func(sv *types.SignatureVector) { sv.Seed[0] ^= 0x01 },
			check:  SignatureCheck{Scheme: scheme, KeyGen: true},
			want:   types.ErrVerificationFailed,
		},
		"short seed": {
			mutate: func(sv *types.SignatureVector) { sv.Seed = sv.Seed[:32] },
			check:  SignatureCheck{Scheme: scheme, KeyGen: true},
			want:   types.ErrMalformedVectorFile,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sv := &types.SignatureVector{
				Seed: clone(base.Signature.Seed),
				Msg:  clone(base.Signature.Msg),
				PK:   clone(base.Signature.PK),
				SK:   clone(base.Signature.SK),
				SM:   clone(base.Signature.SM),
			}
			tc.mutate(sv)
			err := tc.check.Check(session(t), &types.Vector{Family: types.FamilySignature, Signature: sv})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSignatureCheckOpenOnlyVectors(t *testing.T) {
	scheme, err := dilithium.New(dilithium.AlgoDilithium2)
	require.NoError(t, err)
	base := kattest.SignatureVectors(t, scheme, 1)[0].Signature

	check := SignatureCheck{Scheme: scheme, KeyGen: true, Sign: true}
	sv := &types.SignatureVector{
		Msg: clone(base.Msg),
		PK:  clone(base.PK),
		SM:  clone(base.SM),
	}
	require.NoError(t, check.Check(session(t), &types.Vector{Family: types.FamilySignature, Signature: sv}))

	sv.SM[0] ^= 0x01
	err = check.Check(session(t), &types.Vector{Family: types.FamilySignature, Signature: sv})
	require.ErrorIs(t, err, types.ErrVerificationFailed)
}

// statusScheme answers crypto_sign_open with a fixed status and copies the
// tail of sm after a fixed-size signature.
type statusScheme struct {
	dilithium.Scheme
	status int
}

func (s statusScheme) Open(m, sm []byte, _ dilithium.PublicKey) (int, int) {
	if s.status != dilithium.StatusOK {
		return 0, s.status
	}
	return copy(m, sm[1:]), dilithium.StatusOK
}

func TestSignatureCheckUsesOpenStatus(t *testing.T) {
	v := &types.Vector{Family: types.FamilySignature, Signature: &types.SignatureVector{
		Msg: []byte("abc"),
		PK:  []byte{0x01},
		SM:  []byte("Sabc"),
	}}

	require.NoError(t, SignatureCheck{Scheme: statusScheme{}}.Check(session(t), v))

	err := SignatureCheck{Scheme: statusScheme{status: 1}}.Check(session(t), v)
	require.ErrorIs(t, err, types.ErrVerificationFailed)
	require.Contains(t, err.Error(), "status 1")
}

func TestKEMCheckAcceptsGeneratedVectors(t *testing.T) {
	for _, algo := range kyber.Algorithms() {
		t.Run(algo, func(t *testing.T) {
			scheme, err := kyber.New(algo)
			require.NoError(t, err)

			check := KEMCheck{Scheme: scheme, KeyGen: true, Encaps: true}
			s := session(t)
			for _, v := range kattest.KEMVectors(t, scheme, 3) {
				require.NoError(t, check.Check(s, v))
			}
		})
	}
}

func TestKEMCheckWithoutSeed(t *testing.T) {
	scheme, err := kyber.New(kyber.AlgoKyber512)
	require.NoError(t, err)
	kv := kattest.KEMVectors(t, scheme, 1)[0].KEM

	check := KEMCheck{Scheme: scheme, KeyGen: true, Encaps: true}
	seedless := &types.KEMVector{SK: clone(kv.SK), CT: clone(kv.CT), SS: clone(kv.SS)}
	require.NoError(t, check.Check(session(t), &types.Vector{Family: types.FamilyKEM, KEM: seedless}))

	seedless.SS[0] ^= 0x01
	err = check.Check(session(t), &types.Vector{Family: types.FamilyKEM, KEM: seedless})
	require.ErrorIs(t, err, types.ErrVerificationFailed)
}

func TestKEMCheckRejects(t *testing.T) {
	scheme, err := kyber.New(kyber.AlgoKyber768)
	require.NoError(t, err)
	base := kattest.KEMVectors(t, scheme, 1)[0].KEM

	fresh := func() *types.KEMVector {
		return &types.KEMVector{
			Seed: clone(base.Seed),
			PK:   clone(base.PK),
			SK:   clone(base.SK),
			CT:   clone(base.CT),
			SS:   clone(base.SS),
		}
	}

	kv := fresh()
	kv.SS[0] ^= 0x01
	err = KEMCheck{Scheme: scheme}.Check(session(t), &types.Vector{Family: types.FamilyKEM, KEM: kv})
	require.ErrorIs(t, err, types.ErrVerificationFailed)
	require.Contains(t, err.Error(), "ss mismatch")

	kv = fresh()
	kv.CT = kv.CT[:len(kv.CT)-1]
	err = KEMCheck{Scheme: scheme}.Check(session(t), &types.Vector{Family: types.FamilyKEM, KEM: kv})
	require.ErrorIs(t, err, types.ErrVerificationFailed)

	kv = fresh()
	kv.Seed[47] ^= 0x01
	err = KEMCheck{Scheme: scheme, Encaps: true}.Check(session(t), &types.Vector{Family: types.FamilyKEM, KEM: kv})
	require.ErrorIs(t, err, types.ErrVerificationFailed)
}

func TestAEADCheck(t *testing.T) {
	for _, keyBytes := range []int{16, 24, 32} {
		_, vecs := kattest.AEADVectors(t, keyBytes, 24, 20, 4, true)
		for _, v := range vecs {
			require.NoError(t, AEADCheck{}.Check(nil, v))
		}
	}

	_, vecs := kattest.AEADVectors(t, 16, 16, 0, 2, true)

	pass := *vecs[0].AEAD
	pass.CT = clone(pass.CT)
	pass.CT[0] ^= 0x01
	err := AEADCheck{}.Check(nil, &types.Vector{Family: types.FamilyAEAD, AEAD: &pass})
	require.ErrorIs(t, err, types.ErrVerificationFailed)

	// A FAIL vector whose tag is actually valid must be reported.
	valid := *vecs[0].AEAD
	valid.PT = nil
	valid.Fail = true
	err = AEADCheck{}.Check(nil, &types.Vector{Family: types.FamilyAEAD, AEAD: &valid})
	require.ErrorIs(t, err, types.ErrVerificationFailed)

	short := *vecs[0].AEAD
	short.Tag = short.Tag[:4]
	err = AEADCheck{}.Check(nil, &types.Vector{Family: types.FamilyAEAD, AEAD: &short})
	require.ErrorIs(t, err, types.ErrUnsupportedVector)
}

func TestStrategiesRejectOtherFamilies(t *testing.T) {
	kemVec := &types.Vector{Family: types.FamilyKEM, KEM: &types.KEMVector{}}
	sigVec := &types.Vector{Family: types.FamilySignature, Signature: &types.SignatureVector{}}

	require.ErrorIs(t, SignatureCheck{}.Check(nil, kemVec), types.ErrUnsupportedVector)
	require.ErrorIs(t, KEMCheck{}.Check(nil, sigVec), types.ErrUnsupportedVector)
	require.ErrorIs(t, AEADCheck{}.Check(nil, sigVec), types.ErrUnsupportedVector)

	require.Equal(t, types.FamilySignature, SignatureCheck{}.Family())
	require.Equal(t, types.FamilyKEM, KEMCheck{}.Family())
	require.Equal(t, types.FamilyAEAD, AEADCheck{}.Family())
}
