package rsakey

import (
	"fmt"
	"math/big"
)

// ExtendedGCD returns g = gcd(a, b) together with Bezout coefficients x and y
// such that a*x + b*y = g. g is never negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	step := func(prev, cur *big.Int) {
		// (prev, cur) = (cur, prev - q*cur)
		tmp.Mul(q, cur)
		tmp.Sub(prev, tmp)
		prev.Set(cur)
		cur.Set(tmp)
	}

	for r.Sign() != 0 {
		q.Quo(oldR, r)
		step(oldR, r)
		step(oldS, s)
		step(oldT, t)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns the x in [0, m) with a*x = 1 (mod m). It fails with
// ErrInvalidInput when m is not positive or gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("modulus must be positive: %w", ErrInvalidInput)
	}
	g, x, y := ExtendedGCD(a, m)
	ZeroizeInt(y)
	if g.Cmp(one) != 0 {
		ZeroizeInt(x)
		return nil, fmt.Errorf("modular inverse does not exist, values are not coprime: %w", ErrInvalidInput)
	}
	return x.Mod(x, m), nil
}
