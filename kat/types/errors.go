package types

import errorsmod "cosmossdk.io/errors"

// ModuleName is the error codespace of the KAT harness.
const ModuleName = "kat"

var (
	ErrVectorFileNotFound    = errorsmod.Register(ModuleName, 2, "vector file not found")
	ErrVectorFileUnreadable  = errorsmod.Register(ModuleName, 3, "vector file unreadable")
	ErrMalformedVectorFile   = errorsmod.Register(ModuleName, 4, "malformed vector file")
	ErrVerificationFailed    = errorsmod.Register(ModuleName, 5, "verification failed")
	ErrUsage                 = errorsmod.Register(ModuleName, 6, "usage error")
	ErrUnknownScheme         = errorsmod.Register(ModuleName, 7, "unknown scheme")
	ErrDuplicateRegistration = errorsmod.Register(ModuleName, 8, "duplicate scheme registration")
	ErrUnsupportedVector     = errorsmod.Register(ModuleName, 9, "unsupported vector")
)
