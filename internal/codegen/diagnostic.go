package codegen

import "go/token"

// Diagnostic is a fatal generation error tied to a source position. No
// output is produced once a Diagnostic has been reported.
type Diagnostic struct {
	Pos  token.Position
	Msg  string
	Help string
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + d.Msg
	}
	return d.Msg
}

func errorAt(fset *token.FileSet, pos token.Pos, msg, help string) *Diagnostic {
	d := &Diagnostic{Msg: msg, Help: help}
	if pos.IsValid() {
		d.Pos = fset.Position(pos)
	}
	return d
}
