package lake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned when a table directory has no success marker.
var ErrIncomplete = errors.New("table has no success marker")

// DefaultPartition is the directory value used for empty partition values.
const DefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// SuccessMarker is written last into a table directory once every part file
// is in place.
const SuccessMarker = "_SUCCESS"

// needsEscape reports whether c is percent-encoded in a partition value.
func needsEscape(c byte) bool {
	if c < 0x20 || c == 0x7f {
		return true
	}
	switch c {
	case '"', '#', '%', '\'', '*', '/', ':', '=', '?', '\\', '{', '[', ']', '^':
		return true
	}
	return false
}

// EscapeValue encodes a partition value for use as a directory name.
func EscapeValue(v string) string {
	if v == "" {
		return DefaultPartition
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if needsEscape(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeValue reverses EscapeValue.
func UnescapeValue(v string) string {
	if v == DefaultPartition {
		return ""
	}
	if !strings.Contains(v, "%") {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '%' && i+2 < len(v) {
			if h, ok := unhex(v[i+1]); ok {
				if l, ok := unhex(v[i+2]); ok {
					b.WriteByte(h<<4 | l)
					i += 2
					continue
				}
			}
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// PartitionPath renders "col=val/col=val" for the given columns and values.
func PartitionPath(cols, vals []string) string {
	if len(cols) == 0 {
		return ""
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		v := ""
		if i < len(vals) {
			v = vals[i]
		}
		parts[i] = c + "=" + EscapeValue(v)
	}
	return strings.Join(parts, "/")
}

// ParsePartitionPath splits a relative key's leading "col=val" segments
// into a map of unescaped values. Segments without '=' stop the scan.
func ParsePartitionPath(rel string) map[string]string {
	out := map[string]string{}
	for _, seg := range strings.Split(rel, "/") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			break
		}
		out[k] = UnescapeValue(v)
	}
	return out
}

// PartName is the Spark-style name of part file n.
func PartName(n int, runID, ext string) string {
	return fmt.Sprintf("part-%05d-%s.c000%s", n, runID, ext)
}
