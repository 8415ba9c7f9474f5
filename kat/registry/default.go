package registry

import (
	"fmt"

	"katwalk/crypto/pqc/dilithium"
	"katwalk/crypto/pqc/kyber"
	"katwalk/kat/types"
	"katwalk/kat/verify"
)

// GCM selectors keep the parameter sets the standard library supports: a
// 96-bit IV with a full 128-bit tag.
const gcmSelector = "IVlen = 96, Taglen = 128"

// Default returns the harness's built-in table. It panics if a primitive
// backend cannot be constructed, which only happens on a broken build.
func Default() Registry {
	return New(
		signature(dilithium.AlgoDilithium2, "round3/dilithium/dilithium2/PQCsignKAT_2528.rsp"),
		signature(dilithium.AlgoDilithium3, "round3/dilithium/dilithium3/PQCsignKAT_4000.rsp"),
		signature(dilithium.AlgoDilithium5, "round3/dilithium/dilithium5/PQCsignKAT_4864.rsp"),
		kem(kyber.AlgoKyber512, "round3/kyber/kyber512/PQCkemKAT_1632.rsp"),
		kem(kyber.AlgoKyber768, "round3/kyber/kyber768/PQCkemKAT_2400.rsp"),
		kem(kyber.AlgoKyber1024, "round3/kyber/kyber1024/PQCkemKAT_3168.rsp"),
		aead("aes128-gcm-encrypt", "gcmtestvectors/gcmEncryptExtIV128.rsp"),
		aead("aes256-gcm-encrypt", "gcmtestvectors/gcmEncryptExtIV256.rsp"),
		aead("aes128-gcm-decrypt", "gcmtestvectors/gcmDecrypt128.rsp"),
	)
}

func signature(algo, path string) Registration {
	scheme, err := dilithium.New(algo)
	if err != nil {
		panic(fmt.Sprintf("registry: %s backend: %v", algo, err))
	}
	return Registration{
		Family: types.FamilySignature,
		Scheme: algo,
		Path:   path,
		Check:  verify.SignatureCheck{Scheme: scheme, KeyGen: true, Sign: true},
	}
}

func kem(algo, path string) Registration {
	scheme, err := kyber.New(algo)
	if err != nil {
		panic(fmt.Sprintf("registry: %s backend: %v", algo, err))
	}
	return Registration{
		Family: types.FamilyKEM,
		Scheme: algo,
		Path:   path,
		Check:  verify.KEMCheck{Scheme: scheme, KeyGen: true, Encaps: true},
	}
}

func aead(name, path string) Registration {
	return Registration{
		Family:   types.FamilyAEAD,
		Scheme:   name,
		Selector: gcmSelector,
		Path:     path,
		Check:    verify.AEADCheck{},
	}
}
