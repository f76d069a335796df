package testutil

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RequireTextEqual fails the test when got differs from want, printing
// a character-level diff instead of two walls of text. Rendered views
// with ANSI sequences are much easier to debug this way.
func RequireTextEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	t.Fatalf("text mismatch (want vs got):\n%s", dmp.DiffPrettyText(diffs))
}
