package rsakey

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// DefaultMaxPrimeAttempts bounds the candidates RandomPrime draws before it
// gives up. Near 2^b roughly one odd candidate in b*ln(2)/2 is prime, so even
// 4096-bit primes need a few thousand draws at most.
const DefaultMaxPrimeAttempts = 100_000

// RandomPrime returns a probable prime of exactly bits bits. Each candidate is
// bits uniformly random bits with the most significant and least significant
// bits forced to 1, tested with IsProbablePrime.
//
// rounds <= 0 selects DefaultRounds, maxAttempts <= 0 selects
// DefaultMaxPrimeAttempts and a nil random selects crypto/rand. ctx is checked
// between candidates.
func RandomPrime(ctx context.Context, bits, rounds int, random io.Reader, maxAttempts int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("prime size %d bits is below 2: %w", bits, ErrInvalidInput)
	}
	if bits > MaxBits {
		return nil, fmt.Errorf("prime size %d bits is above %d: %w", bits, MaxBits, ErrInvalidInput)
	}
	if random == nil {
		random = rand.Reader
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPrimeAttempts
	}

	buf := make([]byte, (bits+7)/8)
	defer zeroizeBytes(buf)
	topBit := uint(bits-1) % 8
	candidate := new(big.Int)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, fmt.Errorf("read candidate: %w", err)
		}
		buf[0] &= byte(1<<(topBit+1) - 1)
		buf[0] |= 1 << topBit
		buf[len(buf)-1] |= 1
		candidate.SetBytes(buf)

		ok, err := IsProbablePrime(candidate, rounds, random)
		if err != nil {
			return nil, err
		}
		if ok {
			return candidate, nil
		}
	}
	ZeroizeInt(candidate)
	return nil, fmt.Errorf("no %d-bit prime after %d candidates: %w", bits, maxAttempts, ErrInternal)
}
