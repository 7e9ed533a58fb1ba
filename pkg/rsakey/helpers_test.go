package rsakey_test

import (
	"context"
	"math/big"
	"sync"
)

// constReader yields the same byte forever, a stand-in for a broken entropy
// source.
type constReader byte

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

// scriptedPrimes hands out a fixed sequence of primes and remembers every
// value it returned so tests can check they were zeroized.
type scriptedPrimes struct {
	mu     sync.Mutex
	seq    []int64
	issued []*big.Int
}

func (s *scriptedPrimes) Prime(_ context.Context, _ int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := big.NewInt(s.seq[len(s.issued)%len(s.seq)])
	s.issued = append(s.issued, v)
	return v, nil
}

func (s *scriptedPrimes) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issued)
}

func mustInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("couldn't parse " + s)
	}
	return n
}
