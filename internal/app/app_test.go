package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linklabel/internal/config"
	"linklabel/internal/interaction"
	"linklabel/internal/pubsub"
	"linklabel/internal/span"
)

func init() {
	zone.NewGlobal()
}

// createTestModel builds a model without config file, watcher or
// history store.
func createTestModel() Model {
	cfg := config.Defaults()
	cfg.History.Enabled = false
	cfg.AutoReload = false
	cfg.Demo.Text = "visit https://example.com or ping @alice"
	cfg.Demo.Width = 60
	return New(cfg, "", nil)
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel()

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = newModel.(Model)

	assert.Equal(t, 120, m.width, "expected width to be updated")
	assert.Equal(t, 50, m.height, "expected height to be updated")
	assert.True(t, m.ready, "viewport should be ready after first resize")
}

func TestApp_DetectsSpansFromDemoText(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	doc := m.label.Document()
	require.NotNil(t, doc)

	kinds := make(map[span.Kind]bool)
	for _, s := range doc.Spans {
		kinds[s.Kind] = true
	}
	assert.True(t, kinds[span.KindURL], "demo text should contain a URL span")
	assert.True(t, kinds[span.KindUserHandle], "demo text should contain a handle span")
}

func TestApp_HelpToggle(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newModel.(Model)
	assert.True(t, m.showHelp)

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newModel.(Model)
	assert.False(t, m.showHelp)
}

func TestApp_QuitKey(t *testing.T) {
	m := createTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_TouchEventUpdatesStatusAndRelisten(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	m.label.Events().Publish(pubsub.TouchEvent, interaction.TouchResult{
		Span:  span.Span{Kind: span.KindHashtag, Text: "#go"},
		Phase: interaction.Ended,
	})

	newModel, cmd := m.Update(m.mustNextTouch(t))
	m = newModel.(Model)

	assert.Contains(t, m.status, "#go")
	assert.NotNil(t, cmd, "should re-listen for the next touch event")
}

// mustNextTouch drains one touch event via the continuous listener.
func (m Model) mustNextTouch(t *testing.T) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- m.touchListener.Listen()() }()
	select {
	case msg := <-done:
		require.NotNil(t, msg)
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for touch event")
		return nil
	}
}

func TestApp_ConfigReloadRebuildsLabel(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	next := config.Defaults()
	next.History.Enabled = false
	next.AutoReload = false
	next.Demo.Text = "only plain words here"
	next.Demo.Width = 60

	newModel, _ := m.Update(configLoadedMsg{cfg: next})
	m = newModel.(Model)

	assert.Equal(t, "config reloaded", m.status)
	// explicit demo link registration aside, automatic spans are gone
	for _, s := range m.label.Document().Spans {
		assert.Equal(t, span.KindExplicitLink, s.Kind)
	}
}

func TestApp_ConfigReloadFailureKeepsOldConfig(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	before := m.label.Document().Plain()
	newModel, _ := m.Update(configLoadedMsg{err: assert.AnError})
	m = newModel.(Model)

	assert.Equal(t, "config reload failed", m.status)
	assert.Equal(t, before, m.label.Document().Plain())
}

func TestApp_SaveDemoTextKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.History.Enabled = false
	cfg.AutoReload = false
	cfg.Demo.Text = "persist me @here"
	cfg.Demo.Width = 60
	path := filepath.Join(t.TempDir(), "config.yaml")

	m := New(cfg, path, nil)
	t.Cleanup(func() { _ = m.Close() })

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newModel.(Model)
	assert.Equal(t, "demo text saved", m.status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "persist me @here")
}

func TestApp_SaveDemoTextWithoutConfigFile(t *testing.T) {
	m := createTestModel()
	t.Cleanup(func() { _ = m.Close() })

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newModel.(Model)
	assert.Equal(t, "no config file to save to", m.status)
}

func TestHelpStyleFor(t *testing.T) {
	assert.Equal(t, "light", helpStyleFor("light"))
	assert.Equal(t, "dark", helpStyleFor("dark"))
	// Unset mode follows the terminal background.
	assert.Contains(t, []string{"light", "dark"}, helpStyleFor(""))
}

func TestHelpModel_SetStyleInvalidatesCache(t *testing.T) {
	h := newHelpModel("dark")
	_ = h.View(40, 20)
	require.NotEmpty(t, h.rendered)

	h.SetStyle("light")
	assert.Empty(t, h.rendered)
	assert.Equal(t, "light", h.style)
}

func TestApp_TargetOf(t *testing.T) {
	assert.Equal(t, "https://a.io", targetOf(span.Span{Kind: span.KindURL, Text: "https://a.io"}))
	assert.Equal(t, "mailto:a@b.io", targetOf(span.Span{Kind: span.KindEmail, Text: "a@b.io"}))
	assert.Empty(t, targetOf(span.Span{Kind: span.KindHashtag, Text: "#x"}))
}
