package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Diagnostic is a parse error together with the source it refers to.
type Diagnostic struct {
	Filename string
	Source   string
	Err      *parse.Error
}

// MarshalText renders the error with the offending source line and a
// caret under the error column:
//
//	file.py:3:7: incorrect indentation (got 6, should be equal to 4)
//	    3 |       y = 2
//	      |       ^
func (d Diagnostic) MarshalText() ([]byte, error) {
	var sb strings.Builder
	pos := d.Err.Pos
	if d.Filename != "" {
		sb.WriteString(d.Filename + ":")
	}
	fmt.Fprintf(&sb, "%s: %s\n", pos, d.Err.Description())

	line, ok := sourceLine(d.Source, pos.Line)
	if !ok {
		return []byte(sb.String()), nil
	}
	gutter := fmt.Sprintf("%5d | ", pos.Line)
	sb.WriteString(gutter + line + "\n")
	sb.WriteString(strings.Repeat(" ", len(gutter)-2) + "| " + caretPad(line, pos.Column) + "^\n")
	return []byte(sb.String()), nil
}

func (d Diagnostic) String() string {
	text, _ := d.MarshalText()
	return string(text)
}

func sourceLine(src string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// caretPad returns the blanks that put a caret under column col of line,
// keeping tabs so the caret lines up in a terminal.
func caretPad(line string, col int) string {
	var sb strings.Builder
	pos := input.Start
	for _, r := range line {
		if pos.Column >= col {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
			pos.Column += input.DefaultTabWidth
			continue
		}
		sb.WriteRune(' ')
		pos.Column++
	}
	for ; pos.Column < col; pos.Column++ {
		sb.WriteRune(' ')
	}
	return sb.String()
}
