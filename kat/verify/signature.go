package verify

import (
	"katwalk/crypto/pqc/dilithium"
	"katwalk/kat/boundary"
	"katwalk/kat/types"
)

// SignatureCheck opens every signed message under its public key through the
// crypto_sign_open contract and expects the message back. KeyGen additionally
// replays key generation from the vector's seed; Sign re-signs the message
// and expects the recorded signature. Both extra checks only run on vectors
// that carry the field they replay from (seed and sk).
type SignatureCheck struct {
	Scheme dilithium.Scheme
	KeyGen bool
	Sign   bool
}

func (SignatureCheck) Family() types.Family { return types.FamilySignature }

func (SignatureCheck) sealed() {}

func (c SignatureCheck) Check(s *boundary.Session, v *types.Vector) error {
	sv := v.Signature
	if sv == nil {
		return wrongFamily(types.FamilySignature, v)
	}

	m := make([]byte, len(sv.SM))
	mlen, status := c.Scheme.Open(m, sv.SM, dilithium.PublicKey(sv.PK))
	if status != dilithium.StatusOK {
		return failed("crypto_sign_open returned status %d", status)
	}
	if mlen != len(sv.Msg) {
		return failed("mlen mismatch: got %d, want %d", mlen, len(sv.Msg))
	}
	if err := compare(types.KeyMsg, m[:mlen], sv.Msg); err != nil {
		return err
	}

	if c.KeyGen && sv.Seed != nil {
		if err := c.checkKeyGen(s, sv); err != nil {
			return err
		}
	}
	if c.Sign && sv.SK != nil {
		return c.checkSign(sv)
	}
	return nil
}

func (c SignatureCheck) checkKeyGen(s *boundary.Session, sv *types.SignatureVector) error {
	if err := replay(s, sv.Seed); err != nil {
		return err
	}
	seed, err := drawN(s, c.Scheme.SeedSize())
	if err != nil {
		return err
	}
	pk, sk, err := c.Scheme.DeriveKey(seed)
	if err != nil {
		return failed("crypto_sign_keypair: %v", err)
	}
	if err := compare(types.KeyPK, pk, sv.PK); err != nil {
		return err
	}
	if sv.SK != nil {
		return compare(types.KeySK, sk, sv.SK)
	}
	return nil
}

func (c SignatureCheck) checkSign(sv *types.SignatureVector) error {
	sig, err := c.Scheme.Sign(dilithium.PrivateKey(sv.SK), sv.Msg)
	if err != nil {
		return failed("crypto_sign: %v", err)
	}
	return compare("signature", sig, sv.Sig())
}
