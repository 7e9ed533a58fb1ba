package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const checkedPattern = "github.com/hsiuhsiu/genkeys-go/pkg/rsakey/..."

func loadChecked(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()

	pkgs, err := packages.Load(&packages.Config{Mode: mode}, checkedPattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	return pkgs
}
