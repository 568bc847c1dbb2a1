package codegen

import (
	"go/ast"
	"strings"
	"testing"
)

func TestExtractTargetFunction(t *testing.T) {
	fset, file := parseSource(t, `package main

func greet(env *napi.Env) (napi.Handle, error) {
	return env.String("hi")
}
`)
	target, err := ExtractTarget(fset, file.Decls[0])
	if err != nil {
		t.Fatalf("ExtractTarget returned error: %v", err)
	}
	if target.Name != "greet" {
		t.Fatalf("Name = %q, want greet", target.Name)
	}
	if target.Decl != file.Decls[0] {
		t.Fatal("Decl is not the annotated declaration")
	}
	if target.Pos.Line != 3 {
		t.Fatalf("Pos = %v, want line 3", target.Pos)
	}
}

// Shape is not checked at extraction time.
func TestExtractTargetAcceptsAnyFunctionShape(t *testing.T) {
	fset, file := parseSource(t, `package main

func noArgs() {}
func generic[T any](v T) T { return v }
func external(env *napi.Env) (napi.Handle, error)
`)
	for _, decl := range file.Decls {
		if _, err := ExtractTarget(fset, decl); err != nil {
			t.Errorf("ExtractTarget rejected %T: %v", decl, err)
		}
	}
}

func TestExtractTargetRejectsNonFunctions(t *testing.T) {
	src := `package main

type greeter struct {
	name string
}

type caller interface {
	Call() error
}

func (g *greeter) greet() {}

var greeting = "hi"

const answer = 42
`
	fset, file := parseSource(t, src)

	structDecl := file.Decls[0].(*ast.GenDecl)
	structSpec := structDecl.Specs[0].(*ast.TypeSpec)
	ifaceDecl := file.Decls[1].(*ast.GenDecl)
	ifaceSpec := ifaceDecl.Specs[0].(*ast.TypeSpec)

	tests := []struct {
		name string
		node ast.Node
		line int
	}{
		{"struct declaration", structDecl, 3},
		{"type declaration", structSpec, 3},
		{"struct field", structSpec.Type.(*ast.StructType).Fields.List[0], 4},
		{"interface declaration", ifaceDecl, 7},
		{"interface method", ifaceSpec.Type.(*ast.InterfaceType).Methods.List[0], 8},
		{"method", file.Decls[2], 11},
		{"var declaration", file.Decls[3], 13},
		{"const declaration", file.Decls[4], 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTarget(fset, tt.node)
			d := asDiagnostic(t, err)
			if d.Msg != msgNotFunction {
				t.Fatalf("message = %q", d.Msg)
			}
			if !strings.Contains(d.Msg, "can only be applied to functions") {
				t.Fatalf("message %q does not mention functions", d.Msg)
			}
			if d.Pos.Line != tt.line {
				t.Fatalf("position = %v, want line %d", d.Pos, tt.line)
			}
		})
	}
}

func TestExtractTargetNilNode(t *testing.T) {
	fset, _ := parseSource(t, "package main\n")
	_, err := ExtractTarget(fset, nil)
	d := asDiagnostic(t, err)
	if d.Msg != msgNotFunction || d.Pos.IsValid() {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestExtractTargetRejectsReservedNames(t *testing.T) {
	fset, file := parseSource(t, `package main

func napi_go_cb_greet(env *napi.Env) (napi.Handle, error) { return env.String("hi") }
func napi_go_rt(env *napi.Env) (napi.Handle, error)       { return env.String("hi") }
`)
	for _, decl := range file.Decls {
		name := decl.(*ast.FuncDecl).Name.Name
		_, err := ExtractTarget(fset, decl)
		d := asDiagnostic(t, err)
		if !strings.Contains(d.Msg, name) || !strings.Contains(d.Msg, ReservedPrefix) {
			t.Errorf("unexpected message %q for %s", d.Msg, name)
		}
		if d.Pos.Column != 6 {
			t.Errorf("%s: position = %v, want the function name", name, d.Pos)
		}
	}

	// Names that merely contain the prefix are fine.
	fset, file = parseSource(t, "package main\n\nfunc my_napi_go_cb() {}\n")
	if _, err := ExtractTarget(fset, file.Decls[0]); err != nil {
		t.Fatalf("ExtractTarget rejected my_napi_go_cb: %v", err)
	}
}
