package rsakey

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging"
)

// DefaultMaxPairAttempts bounds the (p, q) pairs a Generator draws before it
// gives up. A pair is only rejected on a factor collision or when 65537
// divides the totient, so a healthy source needs one pair almost always.
const DefaultMaxPairAttempts = 1_000

// PrimeSource produces probable primes of an exact bit length. The returned
// value is owned by the caller, which zeroizes it once the key is built.
type PrimeSource interface {
	Prime(ctx context.Context, bits int) (*big.Int, error)
}

// Config carries the knobs of a Generator. The zero value is ready to use:
// crypto/rand, 40 Miller-Rabin rounds, the default attempt bounds and
// slog.Default() for logging.
type Config struct {
	// Random is the entropy source for candidates and witnesses.
	Random io.Reader

	// Rounds is the Miller-Rabin round count per candidate.
	Rounds int

	// MaxPrimeAttempts bounds the candidates drawn per prime.
	MaxPrimeAttempts int

	// MaxPairAttempts bounds the (p, q) pairs drawn per key.
	MaxPairAttempts int

	// MaxBits caps the modulus size Generate accepts. Zero, or anything
	// above the package MaxBits, means MaxBits.
	MaxBits int

	// Primes replaces the Miller-Rabin search. When set, Random, Rounds and
	// MaxPrimeAttempts are ignored.
	Primes PrimeSource

	Logger logging.Logger
}

type millerRabinSource struct {
	random      io.Reader
	rounds      int
	maxAttempts int
}

func (s millerRabinSource) Prime(ctx context.Context, bits int) (*big.Int, error) {
	return RandomPrime(ctx, bits, s.rounds, s.random, s.maxAttempts)
}

func (c Config) primeSource() PrimeSource {
	if c.Primes != nil {
		return c.Primes
	}
	random := c.Random
	if random == nil {
		random = rand.Reader
	}
	return millerRabinSource{random: random, rounds: c.Rounds, maxAttempts: c.MaxPrimeAttempts}
}
