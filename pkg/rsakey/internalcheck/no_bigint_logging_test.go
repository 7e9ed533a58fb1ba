package internalcheck

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

var loggingPkgs = map[string]bool{
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging": true,
	"log/slog": true,
}

var logMethods = map[string]bool{
	"Debug": true, "Info": true, "Warn": true, "Error": true, "With": true,
	"DebugContext": true, "InfoContext": true, "WarnContext": true, "ErrorContext": true,
}

func TestNoBigIntLogging(t *testing.T) {
	pkgs := loadChecked(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				selector, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				obj := pkg.TypesInfo.Uses[selector.Sel]
				if obj == nil || obj.Pkg() == nil || !loggingPkgs[obj.Pkg().Path()] || !logMethods[obj.Name()] {
					return true
				}

				for _, arg := range call.Args {
					if isBigInt(pkg.TypesInfo.TypeOf(arg)) {
						pos := pkg.Fset.Position(arg.Pos())
						findings = append(findings, fmt.Sprintf("%s: *big.Int passed to %s", pos, obj.Name()))
					}
				}
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("key material logging policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isBigInt(typ types.Type) bool {
	if typ == nil {
		return false
	}
	if ptr, ok := typ.(*types.Pointer); ok {
		typ = ptr.Elem()
	}
	named, ok := typ.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "math/big" && obj.Name() == "Int"
}
