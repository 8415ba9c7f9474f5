//go:build pqclean && cgo

package dilithium

/*
#cgo LDFLAGS: -lpqclean

#include <stddef.h>
#include <stdint.h>

int PQCLEAN_DILITHIUM2_CLEAN_crypto_sign_verify(const uint8_t *sig, size_t siglen,
	const uint8_t *m, size_t mlen, const uint8_t *pk);
int PQCLEAN_DILITHIUM2_CLEAN_crypto_sign_open(uint8_t *m, size_t *mlen,
	const uint8_t *sm, size_t smlen, const uint8_t *pk);
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"
)

// pqcleanScheme routes verification through libpqclean. Key derivation and
// signing stay on circl: the native keypair reads the library's global
// randombytes state, which this package does not own.
type pqcleanScheme struct {
	*modeScheme
}

func newPQCleanScheme(name string) (Scheme, error) {
	algo := strings.ToLower(strings.TrimSpace(name))
	if algo != AlgoDilithium2 {
		return nil, fmt.Errorf("%w: pqclean %s", ErrNotImplemented, algo)
	}
	base, err := newCirclScheme(algo)
	if err != nil {
		return nil, err
	}
	return &pqcleanScheme{modeScheme: base.(*modeScheme)}, nil
}

func (s *pqcleanScheme) Verify(pub PublicKey, msg []byte, sig Signature) bool {
	if len(pub) != s.PublicKeySize() {
		return false
	}
	rc := C.PQCLEAN_DILITHIUM2_CLEAN_crypto_sign_verify(
		bytePtr(sig), C.size_t(len(sig)),
		bytePtr(msg), C.size_t(len(msg)),
		bytePtr(pub),
	)
	return rc == 0
}

func (s *pqcleanScheme) Open(m, sm []byte, pub PublicKey) (int, int) {
	if len(pub) != s.PublicKeySize() {
		return 0, StatusRejected
	}

	// crypto_sign_open may write up to smlen bytes into m.
	buf := m
	scratch := len(m) < len(sm)
	if scratch {
		buf = make([]byte, len(sm))
	}

	var mlen C.size_t
	rc := C.PQCLEAN_DILITHIUM2_CLEAN_crypto_sign_open(
		bytePtr(buf), &mlen,
		bytePtr(sm), C.size_t(len(sm)),
		bytePtr(pub),
	)
	if rc != 0 {
		return 0, int(rc)
	}
	n := int(mlen)
	if scratch {
		if len(m) < n {
			return 0, StatusRejected
		}
		copy(m, buf[:n])
	}
	return n, StatusOK
}

func bytePtr(b []byte) *C.uint8_t {
	if len(b) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&b[0]))
}
