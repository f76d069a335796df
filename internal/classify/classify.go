// Package classify provides the text-classification capability consumed
// by the span detector for data-detector kinds (urls and phone numbers).
// Matches are reported in rune offsets so every engine layer shares one
// coordinate space.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"linklabel/internal/span"
)

// Match is a typed range found by a classifier.
type Match struct {
	Range span.Range
	Kind  span.Kind
}

// Classifier finds url and phone-number ranges in plain text.
// An error means the capability is unavailable; callers degrade to
// zero matches rather than failing the scan.
type Classifier interface {
	Classify(text string, kinds []span.Kind) ([]Match, error)
}

var (
	// urlPattern catches scheme-prefixed urls plus bare www. hosts.
	// Trailing sentence punctuation is trimmed after matching.
	urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>()\[\]{}"']+`)

	// phonePattern is deliberately loose; candidates are validated by
	// digit count afterwards.
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{5,}\d`)
)

const (
	phoneMinDigits = 7
	phoneMaxDigits = 15
)

// RegexClassifier is the default Classifier, backed by precompiled
// regular expressions.
type RegexClassifier struct{}

// NewRegexClassifier returns the default regex-backed classifier.
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{}
}

// Classify scans text for the requested kinds. Unknown kinds are
// rejected so a misconfigured caller fails loudly in tests while the
// detector's fail-open policy still applies at runtime.
func (c *RegexClassifier) Classify(text string, kinds []span.Kind) ([]Match, error) {
	var matches []Match
	for _, k := range kinds {
		switch k {
		case span.KindURL:
			matches = append(matches, classifyURLs(text)...)
		case span.KindPhoneNumber:
			matches = append(matches, classifyPhones(text)...)
		default:
			return nil, fmt.Errorf("classify: unsupported kind %q", k)
		}
	}
	return matches, nil
}

func classifyURLs(text string) []Match {
	var out []Match
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		// Trailing punctuation belongs to the sentence, not the url.
		end -= trailingPunct(text[start:end])
		if end <= start {
			continue
		}
		out = append(out, Match{
			Range: runeRange(text, start, end),
			Kind:  span.KindURL,
		})
	}
	return out
}

func classifyPhones(text string) []Match {
	var out []Match
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		n := countDigits(candidate)
		if n < phoneMinDigits || n > phoneMaxDigits {
			continue
		}
		out = append(out, Match{
			Range: runeRange(text, loc[0], loc[1]),
			Kind:  span.KindPhoneNumber,
		})
	}
	return out
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func trailingPunct(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if !strings.ContainsRune(".,;:!?", r) {
			break
		}
		s = s[:len(s)-size]
		n += size
	}
	return n
}

// runeRange converts byte offsets into a rune-offset Range.
func runeRange(text string, startByte, endByte int) span.Range {
	start := utf8.RuneCountInString(text[:startByte])
	length := utf8.RuneCountInString(text[startByte:endByte])
	return span.Range{Offset: start, Length: length}
}
