package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
)

// Expansion is the result of applying one directive: the synthesized
// trampoline alongside the unchanged target.
type Expansion struct {
	Directive  *Directive
	Target     *Target
	Trampoline *Trampoline
}

// Items returns the emitted declarations in order: the trampoline, then the
// original function.
func (e *Expansion) Items() []ast.Decl {
	return []ast.Decl{e.Trampoline.Decl, e.Target.Decl}
}

// Export describes the expansion for the registration step.
func (e *Expansion) Export() Export {
	return Export{
		Name:     e.Directive.Name,
		Symbol:   e.Trampoline.LinkName,
		Function: e.Target.Name,
		Position: fmt.Sprintf("%s:%d", filepath.Base(e.Directive.Pos.Filename), e.Directive.Pos.Line),
	}
}

// Expand validates the directive at site, extracts its target and
// synthesizes the trampoline.
func Expand(fset *token.FileSet, site Site) (*Expansion, error) {
	dir, err := ParseDirective(fset, site.Comment)
	if err != nil {
		return nil, err
	}
	if site.Node == nil {
		return nil, errorAt(fset, site.Comment.Slash, msgNotFunction, "")
	}
	target, err := ExtractTarget(fset, site.Node)
	if err != nil {
		return nil, err
	}
	return &Expansion{
		Directive:  dir,
		Target:     target,
		Trampoline: Synthesize(target),
	}, nil
}

// ExpandFiles expands every directive in files, in order. It stops at the
// first diagnostic.
func ExpandFiles(fset *token.FileSet, files []*ast.File) ([]*Expansion, error) {
	var exps []*Expansion
	seen := make(map[string]*Expansion)
	for _, file := range files {
		for _, site := range FindDirectives(file) {
			exp, err := Expand(fset, site)
			if err != nil {
				return nil, err
			}
			if first, ok := seen[exp.Target.Name]; ok {
				return nil, errorAt(fset, site.Comment.Slash,
					fmt.Sprintf("napi:callback directive applied more than once to %s", exp.Target.Name),
					fmt.Sprintf("first applied at %s", first.Directive.Pos))
			}
			seen[exp.Target.Name] = exp
			exps = append(exps, exp)
		}
	}
	return exps, nil
}
