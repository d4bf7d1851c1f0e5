package mode

import "strings"

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Lexical matches text server-side via $search.
	Lexical Mode = "lexical"
	// Semantic runs a vector similarity search on the dedicated endpoint.
	Semantic Mode = "semantic"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Lexical || m == Semantic
}

// Parse maps user input onto a Mode. Empty input means Lexical.
func Parse(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lexical", "keyword":
		return Lexical, true
	case "semantic", "vector":
		return Semantic, true
	}
	return "", false
}

// FromFlag picks Semantic when the flag is set.
func FromFlag(semantic bool) Mode {
	if semantic {
		return Semantic
	}
	return Lexical
}
