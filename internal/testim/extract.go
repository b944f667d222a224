// Package testim finds references to the Testim test-automation tool in
// free-form ticket text. Matching is purely syntactic; identifiers are not
// validated against anything.
package testim

import "regexp"

var referencePatterns = []*regexp.Regexp{
	// Testim URLs (e.g. https://app.testim.io/run/abc123)
	regexp.MustCompile(`(?i)https?://\S*testim\S*`),
	// Keyworded mentions: "testim: login-flow"
	regexp.MustCompile(`(?i)testim[:\s]+[\w-]+`),
	// Generic test identifiers: "test-id: 42", "testim link: ..."
	regexp.MustCompile(`(?i)test(?:im)?[\s\-_]*(?:id|name|link|url|ref)[\s:]+[\w/-]+`),
}

// FindReferences scans the ticket description and then each comment in
// order, returning every pattern match deduplicated by exact string with
// first-occurrence order preserved.
func FindReferences(description string, comments []string) []string {
	var references []string
	seen := make(map[string]bool)

	texts := make([]string, 0, len(comments)+1)
	texts = append(texts, description)
	texts = append(texts, comments...)

	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, pattern := range referencePatterns {
			for _, match := range pattern.FindAllString(text, -1) {
				if seen[match] {
					continue
				}
				seen[match] = true
				references = append(references, match)
			}
		}
	}

	return references
}
