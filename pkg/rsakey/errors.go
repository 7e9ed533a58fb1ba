package rsakey

import "errors"

// ErrInvalidInput is returned for arguments the algorithms cannot work with:
// a bad modulus size, a prime size below two bits, or a modular inverse
// requested for values that are not coprime.
var ErrInvalidInput = errors.New("invalid input")

// ErrInternal is returned when a search loop exhausts its attempt bound. With
// a healthy random source this does not happen; it points at a degenerate
// entropy source.
var ErrInternal = errors.New("internal error")
