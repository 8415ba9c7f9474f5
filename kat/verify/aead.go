package verify

import (
	"crypto/aes"
	"crypto/cipher"

	errorsmod "cosmossdk.io/errors"

	"katwalk/kat/boundary"
	"katwalk/kat/types"
)

const gcmStandardNonceSize = 12

// AEADCheck runs CAVP AES-GCM vectors. A passing vector must seal PT to CT
// and Tag and open back to PT; a FAIL vector must not open.
type AEADCheck struct{}

func (AEADCheck) Family() types.Family { return types.FamilyAEAD }

func (AEADCheck) sealed() {}

func (AEADCheck) Check(_ *boundary.Session, v *types.Vector) error {
	av := v.AEAD
	if av == nil {
		return wrongFamily(types.FamilyAEAD, v)
	}

	block, err := aes.NewCipher(av.Key)
	if err != nil {
		return errorsmod.Wrapf(types.ErrUnsupportedVector, "key: %v", err)
	}
	gcm, err := newGCM(block, len(av.IV), len(av.Tag))
	if err != nil {
		return err
	}

	sealed := make([]byte, 0, len(av.CT)+len(av.Tag))
	sealed = append(append(sealed, av.CT...), av.Tag...)
	pt, openErr := gcm.Open(nil, av.IV, sealed, av.AAD)

	if av.Fail {
		if openErr == nil {
			return failed("FAIL vector authenticated")
		}
		return nil
	}
	if openErr != nil {
		return failed("open: %v", openErr)
	}
	if err := compare(types.KeyPT, pt, av.PT); err != nil {
		return err
	}

	out := gcm.Seal(nil, av.IV, av.PT, av.AAD)
	if err := compare(types.KeyCT, out[:len(av.PT)], av.CT); err != nil {
		return err
	}
	return compare(types.KeyTag, out[len(av.PT):], av.Tag)
}

func newGCM(block cipher.Block, ivLen, tagLen int) (cipher.AEAD, error) {
	var (
		gcm cipher.AEAD
		err error
	)
	switch {
	case ivLen == gcmStandardNonceSize:
		gcm, err = cipher.NewGCMWithTagSize(block, tagLen)
	case tagLen == 16 && ivLen > 0:
		gcm, err = cipher.NewGCMWithNonceSize(block, ivLen)
	default:
		return nil, errorsmod.Wrapf(types.ErrUnsupportedVector, "iv of %d bytes with a %d-byte tag", ivLen, tagLen)
	}
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrUnsupportedVector, "gcm: %v", err)
	}
	return gcm, nil
}
