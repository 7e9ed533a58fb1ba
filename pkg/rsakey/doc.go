// Package rsakey generates textbook RSA key pairs from first principles.
//
// The package builds a key pair out of three primitives on top of math/big:
//
//   - IsProbablePrime runs the Miller-Rabin test with witnesses drawn from a
//     cryptographically secure source.
//   - RandomPrime samples odd candidates of an exact bit length until one is
//     accepted.
//   - ModInverse solves e*d = 1 (mod phi) with the extended Euclidean
//     algorithm.
//
// A Generator composes them into the key generation protocol and returns the
// public half (n, e) and the private half (n, d) as separate values. The
// totient and the prime factors never leave the Generator; they are zeroized
// before Generate returns.
//
// # Usage
//
//	pub, priv, err := rsakey.Generate(ctx, 2048)
//	if err != nil {
//	    return err
//	}
//	// persist with the keyfile subpackage
//	_, _, err = keyfile.Store{Dir: "."}.Save("alice", pub, priv)
//
// # Scope
//
// The keys are plain integers. There is no ASN.1 or PEM encoding, no
// encryption or signing, and no protection against timing side channels.
// Use crypto/rsa for anything that talks to other software.
package rsakey
