// Command linter runs the exitcheck analyzer.
//
// exitcheck reports calls that terminate the process from anywhere but the
// main function of a main package:
//   - the built-in panic, everywhere
//   - os.Exit and log.Fatal, log.Fatalf, log.Fatalln
//   - Fatal, Fatalf, Fatalw and Fatalln on zap loggers
//
// Components return errors and only cmd/agent decides to exit.
package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"
)

const zapPath = "go.uber.org/zap"

var Analyzer = &analysis.Analyzer{
	Name: "exitcheck",
	Doc:  "reports panic and process exits (os.Exit, log.Fatal, zap Fatal) outside of main.main",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

var fatalFuncs = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

var zapFatalMethods = map[string]bool{
	"Fatal":   true,
	"Fatalf":  true,
	"Fatalw":  true,
	"Fatalln": true,
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.CallExpr)(nil),
	}

	inMain := false
	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.FuncDecl:
			inMain = pass.Pkg.Name() == "main" && node.Recv == nil && node.Name.Name == "main"
		case *ast.CallExpr:
			if ident, ok := node.Fun.(*ast.Ident); ok && ident.Name == "panic" {
				if _, builtin := pass.TypesInfo.Uses[ident].(*types.Builtin); builtin {
					pass.Reportf(ident.Pos(), "found usage of panic")
				}
				return
			}
			if inMain {
				return
			}
			if name, ok := exitCall(pass, node); ok {
				pass.Reportf(node.Pos(), "found usage of %s outside of main function", name)
			}
		}
	})

	return nil, nil
}

// exitCall reports whether call terminates the process and names the callee.
func exitCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return "", false
	}

	pkgPath := fn.Pkg().Path()
	sig, _ := fn.Type().(*types.Signature)
	if sig == nil || sig.Recv() == nil {
		if fatalFuncs[pkgPath][fn.Name()] {
			return pkgPath + "." + fn.Name(), true
		}
		return "", false
	}

	if pkgPath == zapPath && zapFatalMethods[fn.Name()] {
		return "zap " + fn.Name(), true
	}
	return "", false
}
