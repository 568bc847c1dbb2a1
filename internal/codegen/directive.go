package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// DirectiveName is the comment directive marking a callback function:
//
//	//napi:callback("jsFunctionName")
//	func jsFunctionName(env *napi.Env) (napi.Handle, error)
const DirectiveName = "napi:callback"

const (
	directivePrefix = "//" + DirectiveName
	usageHelp       = `usage: //napi:callback("jsFunctionName")`

	msgIncorrectUse = "incorrect use of napi:callback directive"
	msgExpectedName = msgIncorrectUse + ": expected one string argument naming the external function"
	msgArgNotString = "napi:callback argument must be a string"
)

// Directive is a validated napi:callback directive.
type Directive struct {
	Comment *ast.Comment
	Pos     token.Position
	// Name is the registration name, exactly as written.
	Name string
}

// Site is a directive comment together with the declaration whose doc
// comment holds it. Node is nil for a directive that is not part of any
// declaration's doc comment.
type Site struct {
	Comment *ast.Comment
	Node    ast.Node
}

// IsDirective reports whether c is a napi:callback directive, well-formed
// or not.
func IsDirective(c *ast.Comment) bool {
	rest, ok := strings.CutPrefix(c.Text, directivePrefix)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == '(' || rest[0] == ' ' || rest[0] == '\t'
}

// ParseDirective validates c and returns the registration name it carries.
// The directive must have exactly one argument, a string literal.
func ParseDirective(fset *token.FileSet, c *ast.Comment) (*Directive, error) {
	if !IsDirective(c) {
		return nil, errorAt(fset, c.Slash, msgExpectedName, usageHelp)
	}

	args := strings.TrimLeft(c.Text[len(directivePrefix):], " \t")
	if !strings.HasPrefix(args, "(") {
		return nil, errorAt(fset, c.Slash, msgExpectedName, usageHelp)
	}
	// Offset of the opening parenthesis within the comment text.
	base := len(c.Text) - len(args)

	call, argFset, ok := parseArgs(strings.TrimRight(args, " \t"))
	if !ok {
		return nil, errorAt(fset, c.Slash, msgExpectedName, usageHelp)
	}
	if len(call.Args) != 1 || call.Ellipsis.IsValid() {
		msg := fmt.Sprintf("%s: requires exactly one argument, got %d", msgIncorrectUse, len(call.Args))
		return nil, errorAt(fset, c.Slash, msg, usageHelp)
	}

	arg := call.Args[0]
	lit, ok := arg.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		// "f" is prepended to the argument list before parsing.
		off := argFset.Position(arg.Pos()).Offset - 1
		return nil, errorAt(fset, c.Slash+token.Pos(base+off), msgArgNotString, "")
	}
	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, errorAt(fset, c.Slash, msgArgNotString, "")
	}

	return &Directive{
		Comment: c,
		Pos:     fset.Position(c.Slash),
		Name:    name,
	}, nil
}

// parseArgs parses a parenthesized argument list as a call expression.
func parseArgs(args string) (*ast.CallExpr, *token.FileSet, bool) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, "", "f"+args, 0)
	if err != nil {
		return nil, nil, false
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil, nil, false
	}
	if fn, ok := call.Fun.(*ast.Ident); !ok || fn.Name != "f" {
		return nil, nil, false
	}
	return call, fset, true
}

// FindDirectives returns every napi:callback directive in file, in source
// order, paired with the declaration it documents.
func FindDirectives(file *ast.File) []Site {
	owners := make(map[*ast.CommentGroup]ast.Node)
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncDecl:
			setOwner(owners, n.Doc, n)
		case *ast.GenDecl:
			setOwner(owners, n.Doc, n)
		case *ast.TypeSpec:
			setOwner(owners, n.Doc, n)
		case *ast.ValueSpec:
			setOwner(owners, n.Doc, n)
		case *ast.ImportSpec:
			setOwner(owners, n.Doc, n)
		case *ast.Field:
			setOwner(owners, n.Doc, n)
		}
		return true
	})

	var sites []Site
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if IsDirective(c) {
				sites = append(sites, Site{Comment: c, Node: owners[cg]})
			}
		}
	}
	return sites
}

func setOwner(owners map[*ast.CommentGroup]ast.Node, doc *ast.CommentGroup, n ast.Node) {
	if doc != nil {
		owners[doc] = n
	}
}
