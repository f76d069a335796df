package detect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"linklabel/internal/classify"
	"linklabel/internal/richtext"
	"linklabel/internal/span"
)

func allKindsDetector() *Detector {
	return New(Config{
		EnabledKinds: span.AllKinds(),
		Automatic:    true,
		Classifier:   classify.NewRegexClassifier(),
	})
}

func TestDetect_HashtagAndHandle(t *testing.T) {
	d := allKindsDetector()

	spans := d.Detect("hello #world and @bob", nil, nil)
	require.Len(t, spans, 2)

	// Detector order: handles before hashtags.
	assert.Equal(t, span.KindUserHandle, spans[0].Kind)
	assert.Equal(t, "@bob", spans[0].Text)
	assert.Equal(t, span.Range{Offset: 17, Length: 4}, spans[0].Range)

	assert.Equal(t, span.KindHashtag, spans[1].Kind)
	assert.Equal(t, "#world", spans[1].Text)
	assert.Equal(t, span.Range{Offset: 6, Length: 6}, spans[1].Range)
}

func TestDetect_NilKindsEnablesEveryKind(t *testing.T) {
	d := New(Config{
		Automatic:  true,
		Classifier: classify.NewRegexClassifier(),
	})

	spans := d.Detect("hello #world and @bob at https://example.com", nil, nil)
	require.Len(t, spans, 3)

	kinds := make(map[span.Kind]bool)
	for _, s := range spans {
		kinds[s.Kind] = true
	}
	assert.True(t, kinds[span.KindUserHandle])
	assert.True(t, kinds[span.KindHashtag])
	assert.True(t, kinds[span.KindURL])
}

func TestDetect_BareMarkersIgnored(t *testing.T) {
	d := allKindsDetector()

	spans := d.Detect("lone @ and # markers", nil, nil)
	assert.Empty(t, spans)
}

func TestDetect_HandleRequiresBoundary(t *testing.T) {
	d := allKindsDetector()

	// Mid-word @ must not start a handle (it is an email-ish shape, but
	// no TLD here so the email pattern skips it too).
	spans := d.Detect("not-a-handle foo@bar", nil, nil)
	assert.Empty(t, spans)

	spans = d.Detect("@start of string", nil, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, "@start", spans[0].Text)
	assert.Equal(t, 0, spans[0].Range.Offset)
}

func TestDetect_HandleAllowedPunctuation(t *testing.T) {
	d := allKindsDetector()

	spans := d.Detect("ping @dev-ops_&co now", nil, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, "@dev-ops_&co", spans[0].Text)
}

func TestDetect_Email(t *testing.T) {
	d := allKindsDetector()

	spans := d.Detect("write to Ada.Lovelace+tag@Example.COM today", nil, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, span.KindEmail, spans[0].Kind)
	assert.Equal(t, "Ada.Lovelace+tag@Example.COM", spans[0].Text)
}

func TestDetect_URLViaClassifier(t *testing.T) {
	d := allKindsDetector()

	spans := d.Detect("docs at https://example.com/guide ok", nil, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, span.KindURL, spans[0].Kind)
	assert.Equal(t, "https://example.com/guide", spans[0].Text)
}

func TestDetect_RichLinkAttributeOverridesText(t *testing.T) {
	d := allKindsDetector()

	plain := "see https://short.example now"
	rich := richtext.New(plain)
	rich.SetAttrs(span.Range{Offset: 4, Length: 21}, richtext.Attrs{Link: "https://real.example/target"})

	spans := d.Detect(plain, rich, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, "https://real.example/target", spans[0].Text,
		"styled link overrides detected substring")
}

func TestDetect_AutomaticFlagGatesDetection(t *testing.T) {
	d := New(Config{
		EnabledKinds: span.AllKinds(),
		Automatic:    false,
		Classifier:   classify.NewRegexClassifier(),
	})

	link := &span.ExplicitLink{MatchText: "#world"}
	spans := d.Detect("hello #world and @bob", nil, []*span.ExplicitLink{link})

	// Explicit links scan regardless of the automatic flag.
	require.Len(t, spans, 1)
	assert.Equal(t, span.KindExplicitLink, spans[0].Kind)
	assert.Same(t, link, spans[0].Link)
}

func TestDetect_DisabledKindContributesNothing(t *testing.T) {
	d := New(Config{
		EnabledKinds: []span.Kind{span.KindHashtag},
		Automatic:    true,
		Classifier:   classify.NewRegexClassifier(),
	})

	spans := d.Detect("hello #world and @bob at https://example.com", nil, nil)
	require.Len(t, spans, 1)
	assert.Equal(t, span.KindHashtag, spans[0].Kind)
}

func TestDetect_MalformedPatternFailsOpen(t *testing.T) {
	d := New(Config{
		EnabledKinds: span.AllKinds(),
		Automatic:    true,
		Patterns: map[span.Kind]string{
			span.KindHashtag: `([unclosed`,
		},
		Classifier: classify.NewRegexClassifier(),
	})

	spans := d.Detect("hello #world and @bob", nil, nil)
	require.Len(t, spans, 1, "other kinds unaffected by the broken pattern")
	assert.Equal(t, span.KindUserHandle, spans[0].Kind)
}

func TestDetect_ClassifierErrorFailsOpen(t *testing.T) {
	d := New(Config{
		EnabledKinds: span.AllKinds(),
		Automatic:    true,
		Classifier:   failingClassifier{},
	})

	spans := d.Detect("visit https://example.com #tag", nil, nil)
	require.Len(t, spans, 1, "pattern kinds still detected")
	assert.Equal(t, span.KindHashtag, spans[0].Kind)
}

func TestDetect_ShortMatchesDiscarded(t *testing.T) {
	d := New(Config{
		EnabledKinds: []span.Kind{span.KindHashtag},
		Automatic:    true,
		Patterns: map[span.Kind]string{
			// Pathological override that can match a single rune.
			span.KindHashtag: `#?x`,
		},
	})

	spans := d.Detect("x marks #x the spot", nil, nil)
	for _, s := range spans {
		assert.Greater(t, s.Range.Length, 1, "matches of length <= 1 are discarded")
	}
}

func TestDetect_SpanBoundsProperty(t *testing.T) {
	d := allKindsDetector()

	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		n := len([]rune(text))

		for _, s := range d.Detect(text, nil, nil) {
			if s.Range.Offset < 0 || s.Range.End() > n {
				t.Fatalf("span %+v out of bounds for text of %d runes", s, n)
			}
		}
	})
}

type failingClassifier struct{}

func (failingClassifier) Classify(string, []span.Kind) ([]classify.Match, error) {
	return nil, errors.New("classification service unavailable")
}
