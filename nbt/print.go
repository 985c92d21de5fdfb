package nbt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printArrayLimit is the longest array rendered element by element;
// anything longer prints as a length summary. Keeps map rasters from
// flooding the output.
const printArrayLimit = 16

// Sprint renders tag as indented text resembling the string form of the
// format. Arrays longer than a few elements are summarized by length.
func Sprint(tag Tag) string {
	if tag == nil {
		return "<nil>"
	}
	var sb strings.Builder
	fprintTag(&sb, tag, 0)
	return sb.String()
}

// Fprint writes the Sprint rendition of tag to w, with a trailing
// newline.
func Fprint(w io.Writer, tag Tag) error {
	_, err := io.WriteString(w, Sprint(tag)+"\n")
	return err
}

func fprintTag(sb *strings.Builder, tag Tag, indent int) {
	switch t := tag.(type) {
	case Byte:
		fmt.Fprintf(sb, "%db", int8(t))
	case Short:
		fmt.Fprintf(sb, "%ds", int16(t))
	case Int:
		fmt.Fprintf(sb, "%d", int32(t))
	case Long:
		fmt.Fprintf(sb, "%dL", int64(t))
	case Float:
		fmt.Fprintf(sb, "%gf", float32(t))
	case Double:
		fmt.Fprintf(sb, "%gd", float64(t))
	case String:
		sb.WriteString(strconv.Quote(string(t)))
	case ByteArray:
		if len(t) > printArrayLimit {
			fmt.Fprintf(sb, "byte[%d]", len(t))
			return
		}
		sb.WriteString("[B;")
		for i, v := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%d", int8(v))
		}
		sb.WriteString("]")
	case IntArray:
		if len(t) > printArrayLimit {
			fmt.Fprintf(sb, "int[%d]", len(t))
			return
		}
		sb.WriteString("[I;")
		for i, v := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%d", v)
		}
		sb.WriteString("]")
	case LongArray:
		if len(t) > printArrayLimit {
			fmt.Fprintf(sb, "long[%d]", len(t))
			return
		}
		sb.WriteString("[L;")
		for i, v := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%d", v)
		}
		sb.WriteString("]")
	case List:
		if len(t.Items) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for _, item := range t.Items {
			writeIndent(sb, indent+1)
			fprintTag(sb, item, indent+1)
			sb.WriteString(",\n")
		}
		writeIndent(sb, indent)
		sb.WriteString("]")
	case Compound:
		if len(t) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		for _, key := range sortedKeys(t) {
			writeIndent(sb, indent+1)
			sb.WriteString(key)
			sb.WriteString(": ")
			fprintTag(sb, t[key], indent+1)
			sb.WriteString(",\n")
		}
		writeIndent(sb, indent)
		sb.WriteString("}")
	default:
		fmt.Fprintf(sb, "%v", tag)
	}
}

func writeIndent(sb *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		sb.WriteString("  ")
	}
}
