// Package grounding turns provider grounding metadata into ordered,
// deduplicated citations and renders the final text+sources payload.
package grounding

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"gemini-search-mcp/internal/gemini"
)

// Citation identifies one source the model used. Title is never empty:
// when the provider omits it, a label is synthesized from the URL.
type Citation struct {
	URL   string
	Title string
}

// Extract pulls the answer text and the citation list out of a provider
// response. Chunks are walked in provider order and deduplicated by
// exact URL string: the first occurrence wins, insertion order is
// preserved for stable numbering. Inline [N] markers in the text are
// remapped whenever deduplication changes the numbering, so markers
// always match the rendered source positions. A response with zero
// chunks yields an empty list and the text as-is.
func Extract(resp *gemini.Response) (string, []Citation) {
	if resp == nil {
		return "", nil
	}

	// seen maps URL -> 1-based citation number; renumber maps the
	// original 1-based chunk index to the deduplicated number.
	seen := make(map[string]int)
	renumber := make(map[int]int)
	var cites []Citation

	for i, chunk := range resp.Chunks {
		if chunk.URI == "" {
			continue
		}
		if n, ok := seen[chunk.URI]; ok {
			renumber[i+1] = n
			continue
		}
		title := chunk.Title
		if title == "" {
			title = synthesizeTitle(chunk.URI, len(cites)+1)
		}
		cites = append(cites, Citation{URL: chunk.URI, Title: title})
		seen[chunk.URI] = len(cites)
		renumber[i+1] = len(cites)
	}

	return remapMarkers(resp.Text, renumber), cites
}

var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// remapMarkers rewrites inline [N] citation markers according to the
// renumber table. When the table is the identity the text is returned
// untouched; markers with no table entry are left alone.
func remapMarkers(text string, renumber map[int]int) string {
	identity := true
	for from, to := range renumber {
		if from != to {
			identity = false
			break
		}
	}
	if identity {
		return text
	}

	return markerRe.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil {
			return m
		}
		to, ok := renumber[n]
		if !ok {
			return m
		}
		return "[" + strconv.Itoa(to) + "]"
	})
}

// synthesizeTitle derives a deterministic, non-empty label for a chunk
// that arrived without a title: the URL host, or an ordinal placeholder
// when the URL does not parse.
func synthesizeTitle(rawURL string, ordinal int) string {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return fmt.Sprintf("Source %d", ordinal)
}
