package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ObserveVector("dilithium2", "signature", true, time.Millisecond)
	r.ObserveVector("dilithium2", "signature", true, time.Millisecond)
	r.ObserveVector("dilithium2", "signature", false, time.Millisecond)
	r.ObserveFile("dilithium2", false, 1024)

	require.Equal(t, 2.0, testutil.ToFloat64(r.vectors.WithLabelValues("dilithium2", ResultPass)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.vectors.WithLabelValues("dilithium2", ResultFail)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.files.WithLabelValues("dilithium2", ResultFail)))
	require.Equal(t, 1024.0, testutil.ToFloat64(r.bytesRead.WithLabelValues("dilithium2")))
	require.Equal(t, 1, testutil.CollectAndCount(r.verifySeconds))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveFile("kyber512", true, 1)

	count, err := testutil.GatherAndCount(b.Gatherer(), "cavp_kat_files_total")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestNilRecorderIsInert(t *testing.T) {
	var r *Recorder
	r.ObserveVector("x", "kem", true, time.Second)
	r.ObserveFile("x", true, 1)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveFile("aes128-gcm-decrypt", true, 42)

	path := filepath.Join(t.TempDir(), "cavp.prom")
	require.NoError(t, r.WriteTextfile(path))

	bz, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(bz), `cavp_kat_files_total{result="pass",scheme="aes128-gcm-decrypt"} 1`))
}
