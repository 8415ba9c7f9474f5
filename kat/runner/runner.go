// Package runner drives the registered vector files through their checks.
//
// Files run one at a time in registry order and vectors in file order. The
// first failure of any kind stops the run; nothing is retried or skipped.
package runner

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"katwalk/app/metrics"
	"katwalk/kat/boundary"
	"katwalk/kat/reader"
	"katwalk/kat/registry"
	"katwalk/kat/types"
)

// Opener opens a resolved vector file path.
type Opener func(path string) (io.ReadCloser, error)

type Option func(*Runner)

func WithLogger(logger log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithHandle shares a boundary handle with other users of the primitives.
func WithHandle(h *boundary.Handle) Option {
	return func(r *Runner) { r.handle = h }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithOpener(open Opener) Option {
	return func(r *Runner) { r.open = open }
}

type Runner struct {
	root    string
	reg     registry.Registry
	logger  log.Logger
	handle  *boundary.Handle
	metrics *metrics.Recorder
	open    Opener
}

// New returns a Runner resolving registration paths against root.
func New(root string, reg registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		root:   root,
		reg:    reg,
		logger: log.NewNopLogger(),
		handle: boundary.New(),
		open:   func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileResult describes one fully verified file.
type FileResult struct {
	Scheme  string
	Path    string
	Vectors int
	Bytes   int64
	// Digest is the hex SHA3-256 of the file as read.
	Digest  string
	Elapsed time.Duration
}

// Summary lists the files verified before the run ended, in run order.
type Summary struct {
	Files   []FileResult
	Vectors int
}

// Run verifies every registration. On failure the returned Summary still
// holds the files that passed before it. An invalid registry fails before any
// file is opened.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.reg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("registry: %w", err)
	}
	entries := r.reg.Entries()
	results := make([]*FileResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)
	for i, e := range entries {
		// Go blocks while the previous file runs, so a failure is visible
		// here before the next file is submitted.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runFile(gctx, e)
			if err != nil {
				return err
			}
			results[i] = &res
			return nil
		})
	}
	err := g.Wait()

	var sum Summary
	for _, res := range results {
		if res == nil {
			continue
		}
		sum.Files = append(sum.Files, *res)
		sum.Vectors += res.Vectors
	}
	if err == nil {
		err = ctx.Err()
	}
	return sum, err
}

func (r *Runner) runFile(ctx context.Context, reg registry.Registration) (FileResult, error) {
	path := filepath.Join(r.root, filepath.FromSlash(reg.Path))
	res := FileResult{Scheme: reg.Scheme, Path: path}
	logger := r.logger.With("scheme", reg.Scheme, "file", path)

	f, err := r.open(path)
	if err != nil {
		r.metrics.ObserveFile(reg.Scheme, false, 0)
		if errors.Is(err, fs.ErrNotExist) {
			return res, errorsmod.Wrap(types.ErrVectorFileNotFound, path)
		}
		return res, errorsmod.Wrapf(types.ErrVectorFileUnreadable, "%s: %v", path, err)
	}
	defer f.Close()

	logger.Info("processing vector file")
	start := time.Now()

	var n byteCounter
	digest := sha3.New256()
	rd := reader.New(io.TeeReader(f, io.MultiWriter(digest, &n)), reg.Family, reg.Selector)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		v, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.metrics.ObserveFile(reg.Scheme, false, int64(n))
			return res, errorsmod.Wrap(err, path)
		}
		if err := r.check(ctx, logger, reg, v); err != nil {
			r.metrics.ObserveFile(reg.Scheme, false, int64(n))
			return res, errorsmod.Wrapf(err, "%s: count = %d (line %d)", path, v.Count, v.Line)
		}
		logger.Debug("vector verified", "count", v.Count)
		res.Vectors++
	}

	res.Bytes = int64(n)
	res.Digest = hex.EncodeToString(digest.Sum(nil))
	res.Elapsed = time.Since(start)
	r.metrics.ObserveFile(reg.Scheme, true, res.Bytes)
	logger.Info("vector file verified", "vectors", res.Vectors, "sha3_256", res.Digest, "elapsed", res.Elapsed.String())
	return res, nil
}

// check runs one vector while holding the boundary session. A handle shared
// through WithHandle may be leased elsewhere; that wait is logged.
func (r *Runner) check(ctx context.Context, logger log.Logger, reg registry.Registration, v *types.Vector) error {
	s, ok := r.handle.TryAcquire()
	if !ok {
		logger.Debug("waiting for primitive boundary", "count", v.Count)
		var err error
		if s, err = r.handle.Acquire(ctx); err != nil {
			return err
		}
	}
	defer s.Release()

	start := time.Now()
	err := reg.Check.Check(s, v)
	r.metrics.ObserveVector(reg.Scheme, reg.Family.String(), err == nil, time.Since(start))
	return err
}

type byteCounter int64

func (c *byteCounter) Write(p []byte) (int, error) {
	*c += byteCounter(len(p))
	return len(p), nil
}
