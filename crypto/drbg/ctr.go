// Package drbg implements the AES-256 CTR_DRBG that NIST's PQCgenKAT tools use
// behind randombytes(). KAT files record the 48-byte entropy input of every
// test case as its `seed`; reseeding a CTR with that value replays the exact
// byte stream the reference implementation consumed.
package drbg

import (
	"crypto/aes"
	"fmt"
)

const (
	// SeedSize is the length of the entropy input accepted by New and Reseed.
	SeedSize = 48

	keySize   = 32
	blockSize = aes.BlockSize
)

// CTR is a NIST SP 800-90A AES-256 CTR_DRBG without derivation function or
// prediction resistance, matching rng.c from the NIST PQC submission package.
// It is not safe for concurrent use.
type CTR struct {
	key     [keySize]byte
	v       [blockSize]byte
	reseeds uint64
}

// New instantiates a CTR from a SeedSize entropy input.
func New(seed []byte) (*CTR, error) {
	d := new(CTR)
	if err := d.Reseed(seed); err != nil {
		return nil, err
	}
	return d, nil
}

// Reseed discards all state and instantiates the generator again, like
// randombytes_init.
func (d *CTR) Reseed(seed []byte) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("drbg: seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	d.key = [keySize]byte{}
	d.v = [blockSize]byte{}
	var material [SeedSize]byte
	copy(material[:], seed)
	if err := d.update(&material); err != nil {
		return err
	}
	d.reseeds = 1
	return nil
}

// Read fills p with generator output. Every call ends with a state update, so
// two reads of n bytes differ from one read of 2n bytes.
func (d *CTR) Read(p []byte) (int, error) {
	if d.reseeds == 0 {
		return 0, fmt.Errorf("drbg: generator not seeded")
	}
	block, err := aes.NewCipher(d.key[:])
	if err != nil {
		return 0, fmt.Errorf("drbg: %w", err)
	}

	var out [blockSize]byte
	for off := 0; off < len(p); off += blockSize {
		d.incrementV()
		block.Encrypt(out[:], d.v[:])
		copy(p[off:], out[:])
	}

	if err := d.update(nil); err != nil {
		return 0, err
	}
	d.reseeds++
	return len(p), nil
}

func (d *CTR) update(provided *[SeedSize]byte) error {
	block, err := aes.NewCipher(d.key[:])
	if err != nil {
		return fmt.Errorf("drbg: %w", err)
	}

	var temp [SeedSize]byte
	for i := 0; i < SeedSize/blockSize; i++ {
		d.incrementV()
		block.Encrypt(temp[i*blockSize:(i+1)*blockSize], d.v[:])
	}
	if provided != nil {
		for i := range temp {
			temp[i] ^= provided[i]
		}
	}

	copy(d.key[:], temp[:keySize])
	copy(d.v[:], temp[keySize:])
	return nil
}

// incrementV treats V as a 128-bit big-endian counter.
func (d *CTR) incrementV() {
	for j := blockSize - 1; j >= 0; j-- {
		d.v[j]++
		if d.v[j] != 0 {
			return
		}
	}
}
