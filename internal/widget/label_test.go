package widget

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linklabel/internal/interaction"
	"linklabel/internal/layout"
	"linklabel/internal/pubsub"
	"linklabel/internal/span"
)

func asciiRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
}

func press(x, y int) interaction.PointerEvent {
	return interaction.PointerEvent{Phase: interaction.PhasePress, Point: layout.Point{X: x, Y: y}}
}

func release(x, y int) interaction.PointerEvent {
	return interaction.PointerEvent{Phase: interaction.PhaseRelease, Point: layout.Point{X: x, Y: y}}
}

func TestLabel_SetPlainTextDetects(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "visit #tag now")

	doc := l.Document()
	require.NotNil(t, doc)
	require.Len(t, doc.Spans, 1)
	assert.Equal(t, span.KindHashtag, doc.Spans[0].Kind)
	assert.Equal(t, span.Range{Offset: 6, Length: 4}, doc.Spans[0].Range)
}

func TestLabel_ViewPlainProfileMatchesText(t *testing.T) {
	l := New(Config{Automatic: true, Renderer: asciiRenderer()})
	l.SetPlainText(context.Background(), "visit #tag now")

	assert.Equal(t, "visit #tag now", l.View())
}

func TestLabel_ViewWrapsAtWidth(t *testing.T) {
	l := New(Config{Automatic: true, Width: 5, Renderer: asciiRenderer()})
	l.SetPlainText(context.Background(), "aaaa #bb")

	assert.Equal(t, "aaaa \n#bb", l.View())
}

func TestLabel_GestureFiresExplicitLinkAction(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "tap here to continue")

	fired := 0
	l.AddExplicitLinks(context.Background(), &span.ExplicitLink{
		MatchText: "here",
		Action:    func() { fired++ },
	})

	began, ok := l.HandlePointerEvent(press(5, 0))
	require.True(t, ok)
	assert.Equal(t, interaction.Began, began.Phase)
	assert.Equal(t, span.KindExplicitLink, began.Span.Kind)

	ended, ok := l.HandlePointerEvent(release(5, 0))
	require.True(t, ok)
	assert.Equal(t, interaction.Ended, ended.Phase)
	assert.Equal(t, 1, fired)
	assert.Equal(t, began.Session, ended.Session)
}

func TestLabel_PressOffSpanNoResult(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "visit #tag now")

	_, ok := l.HandlePointerEvent(press(0, 0))
	assert.False(t, ok)
}

func TestLabel_PublishesTouchResults(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "visit #tag now")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := l.Events().Subscribe(ctx)

	_, ok := l.HandlePointerEvent(press(7, 0))
	require.True(t, ok)
	_, ok = l.HandlePointerEvent(release(7, 0))
	require.True(t, ok)

	for _, want := range []interaction.ResultPhase{interaction.Began, interaction.Ended} {
		select {
		case ev := <-ch:
			assert.Equal(t, pubsub.TouchEvent, ev.Type)
			assert.Equal(t, want, ev.Payload.Phase)
		case <-time.After(time.Second):
			t.Fatalf("no %s event published", want)
		}
	}
}

func TestLabel_HitTestFollowsWrap(t *testing.T) {
	l := New(Config{Automatic: true, Width: 5})
	l.SetPlainText(context.Background(), "aaaa #bb")

	res, ok := l.HandlePointerEvent(press(1, 1))
	require.True(t, ok)
	assert.Equal(t, span.KindHashtag, res.Span.Kind)

	// Same column on the first line is plain text.
	l.machine.Reset()
	_, ok = l.HandlePointerEvent(press(1, 0))
	assert.False(t, ok)
}

func TestLabel_SetWidthRewraps(t *testing.T) {
	l := New(Config{Automatic: true, Renderer: asciiRenderer()})
	l.SetPlainText(context.Background(), "aaaa #bb")
	require.Equal(t, "aaaa #bb", l.View())

	l.SetWidth(5)
	assert.Equal(t, "aaaa \n#bb", l.View())

	res, ok := l.HandlePointerEvent(press(0, 1))
	require.True(t, ok)
	assert.Equal(t, span.KindHashtag, res.Span.Kind)
}

func TestLabel_RebuildMidGestureDropsGesture(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "visit #tag now")

	_, ok := l.HandlePointerEvent(press(7, 0))
	require.True(t, ok)

	l.SetPlainText(context.Background(), "visit #tag now")

	_, ok = l.HandlePointerEvent(release(7, 0))
	assert.False(t, ok, "release after a rebuild should not complete the old gesture")
}

func TestLabel_ConfigureDisablesKinds(t *testing.T) {
	l := New(Config{Automatic: true})
	l.SetPlainText(context.Background(), "visit #tag now")
	require.Len(t, l.Document().Spans, 1)

	l.Configure(context.Background(), Config{
		Automatic:    true,
		EnabledKinds: []span.Kind{span.KindUserHandle},
	})
	assert.Empty(t, l.Document().Spans)
}

func TestLabel_DocumentNilBeforeText(t *testing.T) {
	l := New(Config{Automatic: true})
	assert.Nil(t, l.Document())
	assert.Equal(t, "", l.View())
}
