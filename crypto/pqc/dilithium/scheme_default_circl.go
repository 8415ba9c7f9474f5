//go:build !pqclean

package dilithium

// Backend reports the backend linked into this build.
func Backend() string { return BackendCircl }

// New returns the circl implementation of the named parameter set when
// building without the pqclean tag.
func New(name string) (Scheme, error) {
	return newCirclScheme(name)
}
