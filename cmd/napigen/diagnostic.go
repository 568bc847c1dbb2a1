package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/tinyrange/napi/internal/codegen"
)

const tabWidth = 4

// terminalWidth returns the width of stderr, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// printDiagnostic writes d in the form
//
//	file.go:3:17: message
//	   3 | //napi:callback(42)
//	     |                 ^
//	     = help: usage
//
// Source lines are truncated to width columns when width is positive.
func printDiagnostic(w io.Writer, d *codegen.Diagnostic, width int) {
	fmt.Fprintf(w, "%s\n", d.Error())

	line, ok := sourceLine(d.Pos.Filename, d.Pos.Line)
	if ok {
		num := fmt.Sprintf("%d", d.Pos.Line)
		gutter := strings.Repeat(" ", len(num))
		prefix := fmt.Sprintf(" %s | ", num)

		text := expandTabs(line)
		if width > 0 && ansi.StringWidth(prefix+text) > width {
			text = ansi.Truncate(text, max(width-len(prefix), 1), "…")
		}
		fmt.Fprintf(w, "%s%s\n", prefix, text)

		if col := d.Pos.Column; col > 0 && col-1 <= len(line) {
			offset := ansi.StringWidth(expandTabs(line[:col-1]))
			if width <= 0 || len(prefix)+offset < width {
				fmt.Fprintf(w, " %s | %s^\n", gutter, strings.Repeat(" ", offset))
			}
		}
		if d.Help != "" {
			fmt.Fprintf(w, " %s = help: %s\n", gutter, d.Help)
		}
		return
	}
	if d.Help != "" {
		fmt.Fprintf(w, "  = help: %s\n", d.Help)
	}
}

// sourceLine returns line n (1-based) of filename.
func sourceLine(filename string, n int) (string, bool) {
	if filename == "" || n <= 0 {
		return "", false
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
