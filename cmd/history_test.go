package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linklabel/internal/history"
	"linklabel/internal/span"
)

func seedHistoryDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Record(span.KindURL, "https://a.io", "https://a.io"))
	require.NoError(t, store.Record(span.KindHashtag, "#go", ""))
	require.NoError(t, store.Record(span.KindHashtag, "#tui", ""))
	return path
}

func runHistory(t *testing.T, args ...string) string {
	t.Helper()
	historyDB = ""
	historyLimit = 20
	historyJSON = false

	var out bytes.Buffer
	historyCmd.SetOut(&out)
	historyCmd.SetErr(&out)
	require.NoError(t, historyCmd.ParseFlags(args))
	require.NoError(t, historyCmd.RunE(historyCmd, nil))
	return out.String()
}

func TestHistory_ListsTapsAndCounts(t *testing.T) {
	path := seedHistoryDB(t)
	out := runHistory(t, "--db", path)

	assert.Contains(t, out, "https://a.io")
	assert.Contains(t, out, "#go")
	assert.Contains(t, out, "#tui")
	// Per-kind totals after the listing.
	assert.Contains(t, out, "hashtag      2")
	assert.Contains(t, out, "url          1")
}

func TestHistory_JSONOutput(t *testing.T) {
	path := seedHistoryDB(t)
	out := runHistory(t, "--db", path, "--json")

	var dtos []entryDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos))
	require.Len(t, dtos, 3)
	assert.Equal(t, "url", dtos[len(dtos)-1].Kind)
}

func TestHistory_LimitFlag(t *testing.T) {
	path := seedHistoryDB(t)
	out := runHistory(t, "--db", path, "--json", "--limit", "1")

	var dtos []entryDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos))
	assert.Len(t, dtos, 1)
}

func TestHistory_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	out := runHistory(t, "--db", path)

	assert.Contains(t, out, "no taps recorded")
}
