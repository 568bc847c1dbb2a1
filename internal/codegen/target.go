package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const msgNotFunction = "napi:callback directive can only be applied to functions, but was applied to this item"

// Target is the function a directive is attached to. Decl is the complete
// declaration and is never modified.
type Target struct {
	Name string
	Decl *ast.FuncDecl
	Pos  token.Position
}

// ExtractTarget accepts only free functions: methods, interface methods,
// struct fields and non-function declarations are rejected. The function's
// signature is not checked here; a target with the wrong shape makes the
// generated trampoline fail to compile instead. Names starting with
// ReservedPrefix are rejected since the generated file declares them.
func ExtractTarget(fset *token.FileSet, node ast.Node) (*Target, error) {
	fn, ok := node.(*ast.FuncDecl)
	if !ok || fn.Recv != nil {
		pos := token.NoPos
		if node != nil {
			pos = node.Pos()
		}
		return nil, errorAt(fset, pos, msgNotFunction, "")
	}
	if name := fn.Name.Name; strings.HasPrefix(name, ReservedPrefix) {
		return nil, errorAt(fset, fn.Name.Pos(),
			fmt.Sprintf("napi:callback function name %s uses the reserved prefix %s", name, ReservedPrefix),
			"rename the function; the prefix belongs to generated code")
	}
	return &Target{
		Name: fn.Name.Name,
		Decl: fn,
		Pos:  fset.Position(fn.Pos()),
	}, nil
}
