// Package internalcheck holds static policy tests for the rsakey packages.
//
// The tests load the packages with golang.org/x/tools/go/packages and walk
// their syntax trees to enforce rules that reviews tend to miss:
//
//   - no %x or %X verbs in fmt/log format strings,
//   - no *big.Int values passed to logging calls,
//   - no math/rand imports; all randomness comes from crypto/rand or a
//     caller-supplied io.Reader.
//
// It contains no exported API.
package internalcheck
