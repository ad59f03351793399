package templates

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)
	spanPattern        = regexp.MustCompile(`\{\{(.*?)\}\}`)
	identPattern       = regexp.MustCompile(`^\w+$`)
)

// Render substitutes {{identifier}} markers in content with values from
// sampleData and returns the result together with any advisory errors.
//
// Rendering is a pure function of its inputs plus the static placeholder
// catalog: it performs no I/O, never panics and never fails hard.
// Malformed input degrades to partial rendering plus error entries; the
// caller decides whether to block or merely warn.
func Render(content string, sampleData map[string]string) RenderResult {
	result := RenderResult{RenderedContent: content}

	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		id := match[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		result.Placeholders = append(result.Placeholders, id)
	}

	// Brace-balance heuristic: raw substring counts, intentionally naive.
	// Literal braces in values can over- or under-report; that matches
	// the stored template format, which has no escaping for {{ or }}.
	opens := strings.Count(content, "{{")
	closes := strings.Count(content, "}}")
	if opens != closes {
		result.Errors = append(result.Errors,
			fmt.Sprintf("placeholder syntax error: found %d '{{' and %d '}}'", opens, closes))
	}

	var invalid []string
	for _, match := range spanPattern.FindAllStringSubmatch(content, -1) {
		if !identPattern.MatchString(match[1]) {
			invalid = append(invalid, match[0])
		}
	}
	if len(invalid) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("invalid placeholder: %s", strings.Join(invalid, ", ")))
	}

	for _, id := range result.Placeholders {
		value, ok := sampleData[id]
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("undefined placeholder: {{%s}} (%s)", id, LabelFor(id)))
			continue
		}
		result.RenderedContent = strings.ReplaceAll(result.RenderedContent, "{{"+id+"}}", value)
	}

	return result
}

// Placeholders returns the deduplicated, first-occurrence-ordered
// identifiers found in content without rendering it.
func Placeholders(content string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		if seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		ids = append(ids, match[1])
	}
	return ids
}
