package internalcheck

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoMathRand(t *testing.T) {
	pkgs := loadChecked(t, packages.NeedImports|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for path := range pkg.Imports {
			if path == "math/rand" || path == "math/rand/v2" {
				findings = append(findings, pkg.PkgPath+" imports "+path)
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("randomness policy violation:\n%s", strings.Join(findings, "\n"))
	}
}
