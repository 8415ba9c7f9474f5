package preflight_test

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"katwalk/crypto/pqc/dilithium"
	"katwalk/crypto/pqc/kyber"
	"katwalk/internal/kattest"
	"katwalk/kat/registry"
	"katwalk/kat/runner"
	"katwalk/kat/types"
)

// Longer than any digest the runner logs; key material and signed messages
// are far longer.
var longHexSequence = regexp.MustCompile(`[0-9a-fA-F]{96,}`)

func readFileIfExists(t *testing.T, path string) (string, bool) {
	t.Helper()
	bz, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(bz), true
}

func TestPQCBackendApproved(t *testing.T) {
	name := dilithium.Backend()
	switch name {
	case dilithium.BackendCircl, dilithium.BackendPQClean:
	default:
		t.Fatalf("unapproved PQC backend linked: %s", name)
	}

	for _, algo := range dilithium.Algorithms() {
		_, err := dilithium.New(algo)
		require.NoError(t, err, algo)
	}
	for _, algo := range kyber.Algorithms() {
		_, err := kyber.New(algo)
		require.NoError(t, err, algo)
	}
}

func TestRegistryWellFormed(t *testing.T) {
	reg := registry.Default()
	require.NoError(t, reg.Validate())

	for _, e := range reg.Entries() {
		require.NotContains(t, e.Path, `\`, "%s: paths use forward slashes", e.Scheme)
		require.False(t, path.IsAbs(e.Path), "%s: path must be relative to --katdir", e.Scheme)
		require.Equal(t, path.Clean(e.Path), e.Path, e.Scheme)
		require.False(t, strings.HasPrefix(e.Path, "../"), "%s: path escapes --katdir", e.Scheme)
		require.Equal(t, strings.ToLower(e.Scheme), e.Scheme, "scheme identifiers are lowercase")
		require.True(t, strings.HasSuffix(e.Path, ".rsp"), e.Scheme)
	}
}

func TestLimitsPresent(t *testing.T) {
	repoRoot := findRepoRoot(t)
	src, ok := readFileIfExists(t, filepath.Join(repoRoot, "kat", "types", "limits.go"))
	require.True(t, ok, "kat/types/limits.go must exist")
	for _, name := range []string{"MaxLineBytes", "SchemeMaxLen"} {
		require.Contains(t, src, name)
	}
	require.Greater(t, types.MaxLineBytes, 0)
}

func TestNoSensitiveLogs(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.Default().Select(dilithium.AlgoDilithium2)
	require.NoError(t, err)

	scheme, err := dilithium.New(dilithium.AlgoDilithium2)
	require.NoError(t, err)
	e := reg.Entries()[0]
	kattest.WriteFile(t, dir, e.Path, kattest.Encode(t, "Dilithium2", nil, kattest.SignatureVectors(t, scheme, 2)))

	buf := &bytes.Buffer{}
	logger := log.NewLogger(buf, log.LevelOption(zerolog.DebugLevel), log.OutputJSONOption())
	_, err = runner.New(dir, reg, runner.WithLogger(logger)).Run(context.Background())
	require.NoError(t, err)

	out := strings.ToLower(buf.String())
	require.Contains(t, out, "processing vector file")
	require.NotContains(t, out, `"seed"`)
	require.NotContains(t, out, `"sk"`)
	if longHexSequence.MatchString(out) {
		t.Fatalf("log contains long hex payload: %s", out)
	}
}

func TestNoPrintingInLibraries(t *testing.T) {
	repoRoot := findRepoRoot(t)
	for _, dir := range []string{"kat", "crypto", "app"} {
		walkGoFiles(t, filepath.Join(repoRoot, dir), func(rel string, data []byte) {
			if strings.HasSuffix(rel, "_test.go") {
				return
			}
			for _, needle := range []string{"fmt.Print", "os.Stdout", "os.Stderr"} {
				if bytes.Contains(data, []byte(needle)) {
					t.Fatalf("%s/%s: library code writes to the terminal (%s); log instead", dir, rel, needle)
				}
			}
		})
	}
}

func TestNoMathRandInKAT(t *testing.T) {
	repoRoot := findRepoRoot(t)
	for _, dir := range []string{"kat", "crypto", "internal"} {
		walkGoFiles(t, filepath.Join(repoRoot, dir), func(rel string, data []byte) {
			if bytes.Contains(data, []byte(`"math/rand`)) {
				t.Fatalf("%s/%s: known-answer code must draw from the NIST DRBG, not math/rand", dir, rel)
			}
		})
	}
}

func findRepoRoot(t *testing.T) string {
	t.Helper()
	_, thisfile, _, _ := runtime.Caller(0)
	dir := filepath.Dir(thisfile)
	return filepath.Clean(filepath.Join(dir, "../.."))
}

func walkGoFiles(t *testing.T, root string, fn func(rel string, data []byte)) {
	t.Helper()
	skip := map[string]bool{
		".git":     true,
		"vendor":   true,
		"testdata": true,
	}

	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skip[filepath.Base(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		bz, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fn(filepath.ToSlash(rel), bz)
		return nil
	}); err != nil {
		t.Fatalf("walk go files: %v", err)
	}
}
