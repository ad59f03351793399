// Package templates implements prompt template placeholder rendering.
//
// Template content is free text containing {{identifier}} markers, where
// identifier is one or more word characters. Rendering substitutes each
// marker with a value from a sample data map and reports unresolved or
// malformed markers without ever failing hard.
package templates

// RenderResult is the outcome of rendering template content against a
// sample data map.
type RenderResult struct {
	// RenderedContent is the content with every resolvable placeholder
	// replaced. Unresolved markers are kept verbatim.
	RenderedContent string `json:"rendered_content"`

	// Errors lists advisory problems: brace imbalance, malformed
	// placeholder spans, and placeholders missing from the data map.
	Errors []string `json:"errors"`

	// Placeholders is the deduplicated, first-occurrence-ordered list of
	// well-formed placeholder identifiers found in the content.
	Placeholders []string `json:"placeholders"`
}
