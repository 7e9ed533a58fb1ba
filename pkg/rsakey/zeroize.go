package rsakey

import (
	"math/big"
	"runtime"
)

// ZeroizeInt overwrites the words backing x and sets x to zero. It is used on
// the prime factors and the totient once the private exponent is known.
//
// As with byte slices, this cannot reach copies made by math/big during
// arithmetic; it only clears the final values held by the caller.
func ZeroizeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(words)
	x.SetInt64(0)
}

func zeroizeAll(xs ...*big.Int) {
	for _, x := range xs {
		ZeroizeInt(x)
	}
}

// zeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
