package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ionasm/internal/diag"
	"ionasm/internal/source"
)

var (
	errorBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnBadge  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	infoBadge  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	pathColor   = color.New(color.Bold)
	caretColor  = color.New(color.FgRed, color.Bold)
	noteColor   = color.New(color.Faint)
	gutterColor = color.New(color.FgCyan)
)

// Pretty renders diagnostics for humans, one block per item:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    <source line>
//	    ^~~~
//
// The bag should be sorted first. Diagnostics with an empty span (rewrite
// passes work on position-free IR) print without a location.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	badge := d.Severity.String()
	if opts.Color {
		badge = severityStyle(d.Severity).Render(badge)
	}

	if fs == nil || d.Primary.Empty() {
		fmt.Fprintf(w, "%s %s: %s\n", badge, d.Code.ID(), d.Message)
	} else {
		start, _ := fs.Resolve(d.Primary)
		loc := fmt.Sprintf("%s:%d:%d:", fs.Get(d.Primary.File).Path, start.Line, start.Col)
		if opts.Color {
			loc = pathColor.Sprint(loc)
		}
		fmt.Fprintf(w, "%s %s %s: %s\n", loc, badge, d.Code.ID(), d.Message)
		if opts.SourceLine {
			prettySourceLine(w, d.Primary, fs, opts)
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			note := "note: " + n.Msg
			if opts.Color {
				note = noteColor.Sprint(note)
			}
			fmt.Fprintf(w, "    %s\n", note)
		}
	}
}

// prettySourceLine prints the first line the span covers with a caret
// underline aligned by display width, so tabs and wide runes line up.
func prettySourceLine(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	start, end := fs.Resolve(span)
	file := fs.Get(span.File)
	line := file.GetLine(start.Line)
	if line == "" && span.Len() > 0 {
		return
	}

	gutter := fmt.Sprintf("%5d | ", start.Line)
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
	}
	fmt.Fprintf(w, "%s%s\n", gutter, line)

	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	prefix := line
	if col-1 < len(prefix) {
		prefix = prefix[:col-1]
	}
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))

	// Underline at most to the end of this line.
	n := int(span.Len())
	if end.Line != start.Line || n < 1 {
		n = 1
	}
	if rest := len(line) - (col - 1); n > rest && rest > 0 {
		n = rest
	}
	marker := "^" + strings.Repeat("~", n-1)
	if opts.Color {
		marker = caretColor.Sprint(marker)
	}
	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", 8), pad, marker)
}

func severityStyle(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.SevError:
		return errorBadge
	case diag.SevWarning:
		return warnBadge
	}
	return infoBadge
}
