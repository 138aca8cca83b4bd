// Package random provides the process-wide random source used for rolls.
//
// The source is seeded from crypto/rand by default. At startup it may instead
// be seeded from a single true-random value fetched over HTTP; any failure of
// that fetch falls back to the OS seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrEmptyRange indicates an inclusive range with no values in it.
var ErrEmptyRange = errors.New("empty random range")

// Source draws uniformly distributed integers.
type Source interface {
	// IntRange returns a value in [min, max], both ends inclusive.
	IntRange(min, max int) (int, error)
}

// Locked is a seeded generator shared by every roll in the process. Each
// draw, or each Do block, holds the lock.
type Locked struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewLocked returns a generator seeded with seed.
func NewLocked(seed int64) *Locked {
	return &Locked{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// OSSeed reads a seed from crypto/rand.
func OSSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read os seed: %w", err)
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

// Seed returns the seed the generator started from.
func (l *Locked) Seed() int64 {
	return l.seed
}

// IntRange draws one value while holding the lock.
func (l *Locked) IntRange(min, max int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return intRange(l.rng, min, max)
}

// Do runs fn with exclusive access to the generator, so every draw fn makes
// belongs to the same request.
func (l *Locked) Do(fn func(Source) error) error {
	if fn == nil {
		return errors.New("random: nil func")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(held{rng: l.rng})
}

// held is the generator as seen from inside Do; the lock is already taken.
type held struct {
	rng *rand.Rand
}

func (h held) IntRange(min, max int) (int, error) {
	return intRange(h.rng, min, max)
}

func intRange(rng *rand.Rand, min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrEmptyRange, min, max)
	}
	return rng.Intn(max-min+1) + min, nil
}
