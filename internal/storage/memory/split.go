package memory

import "strings"

const (
	fieldSep = ';'
	quote    = '"'
)

// splitLine splits one source line on ';' outside quotes. A '"' only toggles
// the quoted state and is never kept; there is no escaped-quote form. Each
// field is trimmed. An unbalanced quote runs to end of line. Scanning is
// bytewise, so non-UTF-8 input bytes pass through unchanged.
func splitLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			inQuotes = !inQuotes
		case c == fieldSep && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}
