//go:build pqclean && cgo

package dilithium

import "errors"

// Backend reports the backend linked into this build.
func Backend() string { return BackendPQClean }

// New returns the native PQClean implementation when libpqclean provides the
// parameter set, and the circl implementation otherwise.
func New(name string) (Scheme, error) {
	scheme, err := newPQCleanScheme(name)
	if errors.Is(err, ErrNotImplemented) {
		return newCirclScheme(name)
	}
	return scheme, err
}
