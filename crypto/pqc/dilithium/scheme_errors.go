package dilithium

import "fmt"

// ErrNotImplemented indicates that a build does not include the requested backend.
var ErrNotImplemented = fmt.Errorf("pqc: backend not implemented in this build")

// ErrUnknownAlgorithm indicates a parameter set name no backend recognizes.
var ErrUnknownAlgorithm = fmt.Errorf("pqc: unknown dilithium parameter set")
