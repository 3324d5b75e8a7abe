package grounding

import (
	"fmt"
	"strings"
)

// FormatResult renders the terminal text block returned to the caller:
// the answer, a blank line, then a numbered Sources list. An empty
// citation list yields the answer alone, never an empty header. The
// result is final; nothing mutates it after assembly.
func FormatResult(text string, cites []Citation) string {
	if len(cites) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\nSources:\n")
	for i, c := range cites {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, c.Title, c.URL)
	}
	return strings.TrimRight(sb.String(), "\n")
}
