package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"text/template"
)

// ReservedPrefix starts every identifier the generated file declares or
// imports. Target functions may not use it.
const ReservedPrefix = "napi_go_"

// SymbolPrefix is prepended to a target's name to form the exported symbol
// of its trampoline.
const SymbolPrefix = ReservedPrefix + "cb_"

// LinkName returns the exported symbol for the trampoline of target.
func LinkName(target string) string {
	return SymbolPrefix + target
}

// Trampoline is a synthesized cgo-exported callback.
type Trampoline struct {
	LinkName string
	Target   string
	// Source is the gofmt'd declaration, including its //export line.
	Source []byte
	// Decl is Source parsed into its own file set.
	Decl *ast.FuncDecl
}

// The callback info handle is unused: targets take no JavaScript arguments.
//
// "var _ napi_go_rt.Value = result" makes the Go compiler reject targets
// whose result type is not a napi.Value. The env parameter and the wrapper
// are in scope at the call, so they carry ReservedPrefix to keep them from
// shadowing the target.
var trampolineTemplate = template.Must(template.New("trampoline").Parse(`// {{.LinkName}} calls {{.Target}} on behalf of the Node-API host.
//
//export {{.LinkName}}
func {{.LinkName}}(napi_go_env C.napi_env, _ C.napi_callback_info) C.napi_value {
	napi_go_wrapper := napi_go_rt.NewEnv(napi_go_rt.RawEnv(napi_go_unsafe.Pointer(napi_go_env)))
	result, err := {{.Target}}(napi_go_wrapper)
	var _ napi_go_rt.Value = result
	if err == nil {
		return C.napi_value(napi_go_unsafe.Pointer(result.SysValue()))
	}
	if exception, ok := napi_go_rt.ExceptionOf(err); ok {
		napi_go_rt.Throw(napi_go_wrapper.Raw(), exception)
	} else {
		message, encErr := napi_go_rt.EncodeMessage(err.Error())
		if encErr != nil {
			message = napi_go_rt.EncodeDescription(err)
		}
		napi_go_rt.ThrowError(napi_go_wrapper.Raw(), nil, message)
	}
	// A value must be returned even after throwing.
	return C.napi_value(napi_go_unsafe.Pointer(napi_go_rt.Undefined(napi_go_wrapper.Raw())))
}
`))

// Synthesize builds the trampoline for t. It depends only on t's name.
func Synthesize(t *Target) *Trampoline {
	tr := &Trampoline{
		LinkName: LinkName(t.Name),
		Target:   t.Name,
	}

	var buf bytes.Buffer
	if err := trampolineTemplate.Execute(&buf, tr); err != nil {
		panic(fmt.Sprintf("codegen: render trampoline for %s: %v", t.Name, err))
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		panic(fmt.Sprintf("codegen: format trampoline for %s: %v", t.Name, err))
	}
	tr.Source = src
	tr.Decl = parseFuncDecl(t.Name, src)
	return tr
}

func parseFuncDecl(name string, src []byte) *ast.FuncDecl {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, LinkName(name)+".go", append([]byte("package p\n\n"), src...), parser.ParseComments)
	if err != nil {
		panic(fmt.Sprintf("codegen: parse trampoline for %s: %v", name, err))
	}
	return file.Decls[0].(*ast.FuncDecl)
}
