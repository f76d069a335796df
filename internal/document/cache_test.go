package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"linklabel/internal/classify"
	"linklabel/internal/detect"
	"linklabel/internal/richtext"
	"linklabel/internal/span"
	"linklabel/internal/styles"
)

func newTestCache() *Cache {
	d := detect.New(detect.Config{
		EnabledKinds: span.AllKinds(),
		Automatic:    true,
		Classifier:   classify.NewRegexClassifier(),
	})
	return NewCache(d, styles.DefaultResolver(styles.DefaultPalette()), richtext.Attrs{})
}

func TestCache_RebuildPlain(t *testing.T) {
	c := newTestCache()

	require.Nil(t, c.Current())

	doc := c.RebuildPlain(context.Background(), "hello #world and @bob")
	require.NotNil(t, doc)
	assert.Same(t, doc, c.Current())
	assert.Len(t, doc.Spans, 2)
	assert.Equal(t, "hello #world and @bob", doc.Plain())
}

func TestCache_RebuildReplacesSnapshot(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	first := c.RebuildPlain(ctx, "#one")
	second := c.RebuildPlain(ctx, "#two")

	assert.NotSame(t, first, second)
	assert.Same(t, second, c.Current())
	assert.Len(t, first.Spans, 1, "old snapshot unchanged")
	assert.Equal(t, "#one", first.Plain())
}

func TestCache_RebuildRichPreservesAttrs(t *testing.T) {
	c := newTestCache()

	rich := richtext.New("plain then link")
	rich.SetAttrs(span.Range{Offset: 11, Length: 4}, richtext.Attrs{Bold: true})

	doc := c.RebuildRich(context.Background(), rich)
	assert.True(t, doc.Styled.AttrsAt(11).Bold, "rich attrs outside spans survive")

	// Source buffer not aliased by the snapshot.
	rich.SetAttrs(span.Range{Offset: 0, Length: 5}, richtext.Attrs{Italic: true})
	assert.False(t, doc.Styled.AttrsAt(0).Italic)
}

func TestCache_SpanRangesValid(t *testing.T) {
	c := newTestCache()

	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		doc := c.RebuildPlain(context.Background(), text)

		n := doc.Len()
		for _, s := range doc.Spans {
			if !s.Range.Within(n) {
				t.Fatalf("span %+v exceeds document of %d runes", s, n)
			}
		}
		if doc.Plain() != text {
			t.Fatalf("round trip mismatch: %q != %q", doc.Plain(), text)
		}
	})
}

func TestCache_AppendExplicitLinks_Incremental(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	doc := c.RebuildPlain(ctx, "go #tag go")
	require.Len(t, doc.Spans, 1, "hashtag only")

	link := &span.ExplicitLink{MatchText: "go"}
	after := c.AppendExplicitLinks(ctx, []*span.ExplicitLink{link})

	assert.Same(t, doc, after, "append mutates the existing snapshot in place")
	require.Len(t, after.Spans, 3)

	// Automatic spans untouched, explicit spans appended after them.
	assert.Equal(t, span.KindHashtag, after.Spans[0].Kind)
	assert.Equal(t, span.KindExplicitLink, after.Spans[1].Kind)
	assert.Equal(t, span.Range{Offset: 0, Length: 2}, after.Spans[1].Range)
	assert.Equal(t, span.Range{Offset: 8, Length: 2}, after.Spans[2].Range)

	// The new spans are styled on the existing buffer.
	p := styles.DefaultPalette()
	assert.Equal(t, p.ColorFor(span.KindExplicitLink), after.Styled.AttrsAt(0).Foreground)
}

func TestCache_AppendBeforeFirstRebuild(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	link := &span.ExplicitLink{MatchText: "go"}
	assert.Nil(t, c.AppendExplicitLinks(ctx, []*span.ExplicitLink{link}))

	// Registered links participate in the next rebuild.
	doc := c.RebuildPlain(ctx, "go now")
	require.Len(t, doc.Spans, 1)
	assert.Equal(t, span.KindExplicitLink, doc.Spans[0].Kind)
}

func TestCache_RebuildKeepsRegisteredLinks(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	c.RebuildPlain(ctx, "go once")
	c.AppendExplicitLinks(ctx, []*span.ExplicitLink{{MatchText: "go"}})

	doc := c.RebuildPlain(ctx, "go twice go")
	explicit := 0
	for _, s := range doc.Spans {
		if s.Kind == span.KindExplicitLink {
			explicit++
		}
	}
	assert.Equal(t, 2, explicit, "full rebuild re-detects registered links")
}
