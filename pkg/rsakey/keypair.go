package rsakey

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging"
)

const (
	// PublicExponent is the Fermat prime F4 used as e for every key.
	PublicExponent = 65537

	// MinBits is the smallest modulus size Generate accepts.
	MinBits = 8

	// MaxBits is the largest modulus size Generate accepts. A Generator may
	// be configured with a lower limit.
	MaxBits = 16384
)

// PublicKey is the public half of a key pair.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey is the private half of a key pair. It deliberately carries no
// prime factors.
type PrivateKey struct {
	N *big.Int
	D *big.Int
}

// Generator produces key pairs. It holds no mutable state, so one Generator
// may serve concurrent callers as long as its PrimeSource is safe for
// concurrent use (the default one is).
type Generator struct {
	primes   PrimeSource
	maxPairs int
	maxBits  int
	logger   logging.Logger
}

// NewGenerator returns a Generator configured by cfg.
func NewGenerator(cfg Config) *Generator {
	g := &Generator{
		primes:   cfg.primeSource(),
		maxPairs: cfg.MaxPairAttempts,
		maxBits:  cfg.MaxBits,
		logger:   cfg.Logger,
	}
	if g.maxPairs <= 0 {
		g.maxPairs = DefaultMaxPairAttempts
	}
	if g.maxBits <= 0 || g.maxBits > MaxBits {
		g.maxBits = MaxBits
	}
	if g.logger == nil {
		g.logger = logging.New(nil)
	}
	return g
}

// Generate creates a key pair with the default configuration.
func Generate(ctx context.Context, bits int) (*PublicKey, *PrivateKey, error) {
	return NewGenerator(Config{}).Generate(ctx, bits)
}

// ValidateBits checks that bits is a usable modulus size: even and within
// [MinBits, MaxBits].
func ValidateBits(bits int) error {
	if bits < MinBits {
		return fmt.Errorf("modulus size %d bits is below %d: %w", bits, MinBits, ErrInvalidInput)
	}
	if bits > MaxBits {
		return fmt.Errorf("modulus size %d bits is above %d: %w", bits, MaxBits, ErrInvalidInput)
	}
	if bits%2 != 0 {
		return fmt.Errorf("modulus size %d bits is odd: %w", bits, ErrInvalidInput)
	}
	return nil
}

// Generate draws two distinct primes of bits/2 bits each and derives
// n = p*q and d = e^-1 mod (p-1)(q-1) with e = 65537. Pairs with p == q or
// gcd(e, phi) != 1 are discarded and redrawn.
//
// The modulus has bits or bits-1 bits. p, q and phi are zeroized before
// Generate returns.
func (g *Generator) Generate(ctx context.Context, bits int) (*PublicKey, *PrivateKey, error) {
	if err := ValidateBits(bits); err != nil {
		return nil, nil, err
	}
	if bits > g.maxBits {
		return nil, nil, fmt.Errorf("modulus size %d bits is above the configured %d: %w", bits, g.maxBits, ErrInvalidInput)
	}
	half := bits / 2
	e := big.NewInt(PublicExponent)

	for attempt := 1; attempt <= g.maxPairs; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		p, err := g.primes.Prime(ctx, half)
		if err != nil {
			return nil, nil, fmt.Errorf("generate p: %w", err)
		}
		q, err := g.primes.Prime(ctx, half)
		if err != nil {
			ZeroizeInt(p)
			return nil, nil, fmt.Errorf("generate q: %w", err)
		}

		if p.Cmp(q) == 0 {
			g.logger.Debug(ctx, "rejected prime pair", "reason", "collision", "attempt", attempt)
			zeroizeAll(p, q)
			continue
		}

		pMinusOne := new(big.Int).Sub(p, one)
		qMinusOne := new(big.Int).Sub(q, one)
		phi := new(big.Int).Mul(pMinusOne, qMinusOne)

		d, err := ModInverse(e, phi)
		if err != nil {
			// gcd(e, phi) != 1
			g.logger.Debug(ctx, "rejected prime pair", "reason", "not_coprime", "attempt", attempt)
			zeroizeAll(p, q, pMinusOne, qMinusOne, phi)
			continue
		}

		n := new(big.Int).Mul(p, q)
		zeroizeAll(p, q, pMinusOne, qMinusOne, phi)

		g.logger.Info(ctx, "generated key pair",
			"bits", bits,
			"modulus_bits", n.BitLen(),
			"attempts", attempt,
			logging.Redacted("d"),
		)
		return &PublicKey{N: n, E: e}, &PrivateKey{N: new(big.Int).Set(n), D: d}, nil
	}

	return nil, nil, fmt.Errorf("no usable prime pair after %d attempts: %w", g.maxPairs, ErrInternal)
}
