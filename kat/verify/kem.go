package verify

import (
	"katwalk/crypto/pqc/kyber"
	"katwalk/kat/boundary"
	"katwalk/kat/types"
)

// KEMCheck decapsulates every ciphertext and expects the recorded shared
// secret. KeyGen replays crypto_kem_keypair from the vector's seed; Encaps
// continues the same generator stream into crypto_kem_enc and implies KeyGen.
// Vectors without a seed get the decapsulation check only.
type KEMCheck struct {
	Scheme kyber.Scheme
	KeyGen bool
	Encaps bool
}

func (KEMCheck) Family() types.Family { return types.FamilyKEM }

func (KEMCheck) sealed() {}

func (c KEMCheck) Check(s *boundary.Session, v *types.Vector) error {
	kv := v.KEM
	if kv == nil {
		return wrongFamily(types.FamilyKEM, v)
	}

	ss, err := c.Scheme.Decapsulate(kyber.PrivateKey(kv.SK), kv.CT)
	if err != nil {
		return failed("crypto_kem_dec: %v", err)
	}
	if err := compare(types.KeySS, ss, kv.SS); err != nil {
		return err
	}

	if (!c.KeyGen && !c.Encaps) || kv.Seed == nil {
		return nil
	}
	pk, err := c.checkKeyGen(s, kv)
	if err != nil {
		return err
	}
	if !c.Encaps {
		return nil
	}

	seed, err := drawN(s, c.Scheme.EncapsulationSeedSize())
	if err != nil {
		return err
	}
	ct, encSS, err := c.Scheme.Encapsulate(pk, seed)
	if err != nil {
		return failed("crypto_kem_enc: %v", err)
	}
	if err := compare(types.KeyCT, ct, kv.CT); err != nil {
		return err
	}
	return compare(types.KeySS, encSS, kv.SS)
}

// checkKeyGen draws the two halves of the key seed separately, as the
// reference keypair makes two randombytes calls.
func (c KEMCheck) checkKeyGen(s *boundary.Session, kv *types.KEMVector) (kyber.PublicKey, error) {
	if err := replay(s, kv.Seed); err != nil {
		return nil, err
	}
	half := c.Scheme.SeedSize() / 2
	d, err := drawN(s, half)
	if err != nil {
		return nil, err
	}
	z, err := drawN(s, c.Scheme.SeedSize()-half)
	if err != nil {
		return nil, err
	}

	pk, sk, err := c.Scheme.DeriveKeyPair(append(d, z...))
	if err != nil {
		return nil, failed("crypto_kem_keypair: %v", err)
	}
	if kv.PK != nil {
		if err := compare(types.KeyPK, pk, kv.PK); err != nil {
			return nil, err
		}
	}
	if err := compare(types.KeySK, sk, kv.SK); err != nil {
		return nil, err
	}
	return pk, nil
}
