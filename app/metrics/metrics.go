package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// Recorder collects run metrics on its own registry so a run can be exported
// as a node_exporter textfile without touching the global registry. A nil
// Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	vectors       *prometheus.CounterVec
	files         *prometheus.CounterVec
	bytesRead     *prometheus.CounterVec
	verifySeconds *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		vectors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cavp",
				Subsystem: "kat",
				Name:      "vectors_total",
				Help:      "Count of known-answer vectors checked, classified by scheme and result",
			},
			[]string{"scheme", "result"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cavp",
				Subsystem: "kat",
				Name:      "files_total",
				Help:      "Count of vector files processed, classified by scheme and result",
			},
			[]string{"scheme", "result"},
		),
		bytesRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cavp",
				Subsystem: "kat",
				Name:      "read_bytes_total",
				Help:      "Bytes of vector files consumed",
			},
			[]string{"scheme"},
		),
		verifySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cavp",
				Subsystem: "kat",
				Name:      "verify_seconds",
				Help:      "Time spent checking one vector",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
			},
			[]string{"family"},
		),
	}
	r.registry.MustRegister(r.vectors, r.files, r.bytesRead, r.verifySeconds)
	return r
}

func result(ok bool) string {
	if ok {
		return ResultPass
	}
	return ResultFail
}

// ObserveVector records one vector check.
func (r *Recorder) ObserveVector(scheme, family string, ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.vectors.WithLabelValues(scheme, result(ok)).Inc()
	r.verifySeconds.WithLabelValues(family).Observe(elapsed.Seconds())
}

// ObserveFile records a finished file and the bytes read from it.
func (r *Recorder) ObserveFile(scheme string, ok bool, n int64) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(scheme, result(ok)).Inc()
	r.bytesRead.WithLabelValues(scheme).Add(float64(n))
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
