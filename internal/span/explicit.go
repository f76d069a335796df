package span

// MatchOptions controls how an ExplicitLink's match text is searched.
// The zero value is a case-sensitive, literal, forward search.
type MatchOptions struct {
	// IgnoreCase folds case while matching.
	IgnoreCase bool

	// Regex treats MatchText as a regular expression instead of a
	// literal string. A pattern that fails to compile contributes no
	// matches.
	Regex bool

	// Backwards searches from the end of the search range toward the
	// start. Matches are reported in discovery order, highest offset
	// first.
	Backwards bool
}

// ExplicitLink is a caller-declared text pattern plus tap action,
// independent of automatic detection. Caller-owned; the engine only
// reads it.
type ExplicitLink struct {
	// MatchText is the literal text or pattern to search for.
	MatchText string

	// SearchRange restricts where matches may occur. Nil means the
	// whole text. Matches that would spill past the range's upper
	// bound are discarded.
	SearchRange *Range

	Options MatchOptions

	// Action runs when a span produced by this link is tapped.
	Action func()
}
