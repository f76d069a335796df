package detect

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"linklabel/internal/log"
	"linklabel/internal/span"
)

// ExplicitSpans searches every explicit link's match text within its
// search range and returns a span per occurrence. Occurrences never
// overlap: after each match the search resumes immediately past the
// match end (or before the match start when searching backwards). A
// search range reaching past the buffer is clamped, so an oversized
// range simply stops producing matches.
func (d *Detector) ExplicitSpans(plain string, links []*span.ExplicitLink) []span.Span {
	runes := []rune(plain)
	var out []span.Span
	for _, link := range links {
		if link == nil || link.MatchText == "" {
			continue
		}
		for _, r := range findOccurrences(runes, link) {
			out = append(out, span.Span{
				Kind:  span.KindExplicitLink,
				Range: r,
				Text:  string(runes[r.Offset:r.End()]),
				Link:  link,
			})
		}
	}
	return out
}

func findOccurrences(runes []rune, link *span.ExplicitLink) []span.Range {
	bounds := span.Range{Offset: 0, Length: len(runes)}
	if link.SearchRange != nil {
		bounds = link.SearchRange.Clamp(len(runes))
	}
	if bounds.Length == 0 {
		return nil
	}

	if link.Options.Regex {
		return regexOccurrences(runes, link, bounds)
	}
	return literalOccurrences(runes, link, bounds)
}

func literalOccurrences(runes []rune, link *span.ExplicitLink, bounds span.Range) []span.Range {
	needle := []rune(link.MatchText)
	n := len(needle)
	if n == 0 || n > bounds.Length {
		return nil
	}

	fold := link.Options.IgnoreCase
	matchAt := func(i int) bool {
		for j := 0; j < n; j++ {
			a, b := runes[i+j], needle[j]
			if fold {
				a, b = unicode.ToLower(a), unicode.ToLower(b)
			}
			if a != b {
				return false
			}
		}
		return true
	}

	var out []span.Range
	if link.Options.Backwards {
		for i := bounds.End() - n; i >= bounds.Offset; {
			if matchAt(i) {
				out = append(out, span.Range{Offset: i, Length: n})
				i -= n
			} else {
				i--
			}
		}
		return out
	}

	for i := bounds.Offset; i+n <= bounds.End(); {
		if matchAt(i) {
			out = append(out, span.Range{Offset: i, Length: n})
			i += n
		} else {
			i++
		}
	}
	return out
}

func regexOccurrences(runes []rune, link *span.ExplicitLink, bounds span.Range) []span.Range {
	expr := link.MatchText
	if link.Options.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		log.Warn(log.CatDetect, "explicit link pattern failed to compile, link skipped",
			"pattern", link.MatchText, "error", err)
		return nil
	}

	window := string(runes[bounds.Offset:bounds.End()])
	var out []span.Range
	for _, loc := range re.FindAllStringIndex(window, -1) {
		if loc[1] == loc[0] {
			continue // zero-length match carries no tappable text
		}
		start := bounds.Offset + utf8.RuneCountInString(window[:loc[0]])
		length := utf8.RuneCountInString(window[loc[0]:loc[1]])
		out = append(out, span.Range{Offset: start, Length: length})
	}

	if link.Options.Backwards {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
