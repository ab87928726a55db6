package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/parsnip/cst"
)

// TreeEncoder writes one line per node, indented by depth. Syntax tree
// nodes are written as kind, quoted text and span separated by tabs; maps
// and slices decoded from JSON are written as keys and indices.
type TreeEncoder struct {
	w     io.Writer
	value any
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(v any) error {
	e.value = v
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	return e.marshal(e.value)
}

func (e *TreeEncoder) marshal(v any) ([]byte, error) {
	var sb strings.Builder
	writeTree(&sb, v, "", 0)
	return []byte(sb.String()), nil
}

func writeTree(sb *strings.Builder, v any, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := v.(type) {
	case *cst.Node:
		if v.IsTerminal() {
			fmt.Fprintf(sb, "%s%s%s\t%q\t%s\n", indent, label, v.Kind, v.Text, v.Span)
			break
		}
		fmt.Fprintf(sb, "%s%s%s\t%s\n", indent, label, v.Kind, v.Span)
		for _, c := range v.Children {
			writeTree(sb, c, "", depth+1)
		}
	case map[string]any:
		fmt.Fprintf(sb, "%s%sobject\n", indent, label)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeTree(sb, v[k], fmt.Sprintf("%q: ", k), depth+1)
		}
	case []any:
		fmt.Fprintf(sb, "%s%sarray\n", indent, label)
		for i, x := range v {
			writeTree(sb, x, fmt.Sprintf("%d: ", i), depth+1)
		}
	case string:
		fmt.Fprintf(sb, "%s%s%q\n", indent, label, v)
	case nil:
		fmt.Fprintf(sb, "%s%snull\n", indent, label)
	default:
		fmt.Fprintf(sb, "%s%s%v\n", indent, label, v)
	}
}
