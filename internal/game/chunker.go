package game

import (
	"fmt"
	"strings"
)

const (
	ellipsis = "..."

	// Worst-case page counter, " (99/99)". Reserved during the splitting
	// pass because the final count is unknown until all parts are split.
	counterReserve = 8
)

// Chunk splits ordered content parts into frames of at most budget bytes,
// suffixing every frame with its page counter once the total is known.
// Content is only ever lost through the explicit ellipsis truncation.
func Chunk(parts []string, budget int) []string {
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part)+counterReserve <= budget {
			chunks = append(chunks, part)
			continue
		}
		chunks = append(chunks, splitLines(part, budget)...)
	}

	n := len(chunks)
	if n <= 1 {
		return chunks
	}

	framed := make([]string, n)
	for i, chunk := range chunks {
		suffix := fmt.Sprintf(" (%d/%d)", i+1, n)
		if len(chunk)+len(suffix) > budget {
			chunk = hardTruncate(chunk, budget-len(suffix))
		}
		framed[i] = chunk + suffix
	}
	return framed
}

// ChunkWords is the word-boundary variant used for free-form generated
// text. Every frame starts with label and carries the same counter and
// truncation guarantees as Chunk.
func ChunkWords(label, text string, budget int) []string {
	limit := budget - len(label) - counterReserve
	if limit < len(ellipsis)+1 {
		limit = len(ellipsis) + 1
	}

	words := strings.Fields(text)
	var chunks []string
	var cur strings.Builder
	for _, word := range words {
		if len(word) > limit {
			word = hardTruncate(word, limit)
		}
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}
		if cur.Len()+1+len(word) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	n := len(chunks)
	framed := make([]string, n)
	for i, chunk := range chunks {
		suffix := ""
		if n > 1 {
			suffix = fmt.Sprintf(" (%d/%d)", i+1, n)
		}
		if len(label)+len(chunk)+len(suffix) > budget {
			chunk = hardTruncate(chunk, budget-len(label)-len(suffix))
		}
		framed[i] = label + chunk + suffix
	}
	return framed
}

// splitLines greedily packs the part's lines into sub-parts that leave
// room for the worst-case counter.
func splitLines(part string, budget int) []string {
	limit := budget - counterReserve
	var out []string
	var cur string
	for _, line := range strings.Split(part, "\n") {
		if len(line) > limit {
			line = hardTruncate(line, limit)
		}
		if cur == "" {
			cur = line
			continue
		}
		if len(cur)+1+len(line) > limit {
			out = append(out, cur)
			cur = line
			continue
		}
		cur += "\n" + line
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func hardTruncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return s[:max]
	}
	return s[:max-len(ellipsis)] + ellipsis
}
