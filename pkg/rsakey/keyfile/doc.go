// Package keyfile persists rsakey key pairs in the plain name=value text
// format.
//
// A public key file (<name>.pub) holds the modulus and the public exponent, a
// private key file (<name>.prv) the modulus and the private exponent:
//
//	n=<decimal integer>
//	e=<decimal integer>
//
//	n=<decimal integer>
//	d=<decimal integer>
//
// One assignment per line; values are decimal digit strings so nothing needs
// escaping. Private files are created with mode 0600.
package keyfile
