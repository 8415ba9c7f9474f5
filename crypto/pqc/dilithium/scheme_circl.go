package dilithium

import (
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign"
	dilithium2 "github.com/cloudflare/circl/sign/dilithium/mode2"
	dilithium3 "github.com/cloudflare/circl/sign/dilithium/mode3"
	dilithium5 "github.com/cloudflare/circl/sign/dilithium/mode5"
)

var circlModes = map[string]func() sign.Scheme{
	AlgoDilithium2: dilithium2.Scheme,
	AlgoDilithium3: dilithium3.Scheme,
	AlgoDilithium5: dilithium5.Scheme,
}

func newCirclScheme(name string) (Scheme, error) {
	algo := strings.ToLower(strings.TrimSpace(name))
	mode, ok := circlModes[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	sch := mode()
	if sch == nil {
		return nil, fmt.Errorf("dilithium: circl scheme %s unavailable", algo)
	}
	return newModeScheme(sch, algo)
}
