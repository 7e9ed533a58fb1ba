package rsakey

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// DefaultRounds is the Miller-Rabin round count used when none is given. The
// error probability for a composite is at most 4^-40.
const DefaultRounds = 40

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

const maxWitnessDraws = 128

// smallPrimes are trial divisors applied before any modular exponentiation.
var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}

// IsProbablePrime reports whether n is probably prime, using trial division
// by the first ten primes followed by rounds iterations of Miller-Rabin with
// witnesses drawn uniformly from [2, n-2]. A false result is definite; a true
// result is wrong with probability at most 4^-rounds.
//
// rounds <= 0 selects DefaultRounds and a nil random selects crypto/rand.
// Errors only come from the random source.
func IsProbablePrime(n *big.Int, rounds int, random io.Reader) (bool, error) {
	if n.Cmp(two) < 0 {
		return false, nil
	}
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if random == nil {
		random = rand.Reader
	}

	r := new(big.Int)
	for _, sp := range smallPrimes {
		p := big.NewInt(sp)
		if r.Mod(n, p).Sign() == 0 {
			return n.Cmp(p) == 0, nil
		}
	}

	// n-1 = d * 2^s with d odd
	nMinusOne := new(big.Int).Sub(n, one)
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	// witness range [2, n-2] has n-3 elements
	span := new(big.Int).Sub(n, big.NewInt(3))
	a := new(big.Int)
	x := new(big.Int)

	for i := 0; i < rounds; i++ {
		w, err := randBelow(random, span)
		if err != nil {
			return false, fmt.Errorf("draw witness: %w", err)
		}
		a.Add(w, two)

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}

		passed := false
		for j := uint(1); j < s; j++ {
			x.Exp(x, two, n)
			if x.Cmp(nMinusOne) == 0 {
				passed = true
				break
			}
		}
		if !passed {
			return false, nil
		}
	}
	return true, nil
}

// randBelow returns a uniform value in [0, max) read from random, by rejection
// sampling on the bit length of max-1. Unlike crypto/rand.Int it is guaranteed
// to read from the supplied reader, and it gives up after maxWitnessDraws
// rejections since each draw is accepted with probability above 1/2.
func randBelow(random io.Reader, max *big.Int) (*big.Int, error) {
	n := new(big.Int).Sub(max, one)
	bitLen := n.BitLen()
	if bitLen == 0 {
		return n, nil
	}
	buf := make([]byte, (bitLen+7)/8)
	defer zeroizeBytes(buf)
	mask := byte(0xFF >> (uint(len(buf)*8 - bitLen)))

	for i := 0; i < maxWitnessDraws; i++ {
		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, err
		}
		buf[0] &= mask
		n.SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no value below %d-bit bound after %d draws: %w", bitLen, maxWitnessDraws, ErrInternal)
}
