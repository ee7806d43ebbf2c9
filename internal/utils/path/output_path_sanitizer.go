package pathutils

import (
	"strings"
)

// OutputPathSanitizer normalizes artifact path inputs consistently across commands.
type OutputPathSanitizer struct {
	homeExpander *HomeExpander
}

// NewOutputPathSanitizer constructs an OutputPathSanitizer with default behavior.
func NewOutputPathSanitizer() *OutputPathSanitizer {
	return NewOutputPathSanitizerWithExpander(nil)
}

// NewOutputPathSanitizerWithExpander constructs an OutputPathSanitizer using the provided expander.
func NewOutputPathSanitizerWithExpander(homeExpander *HomeExpander) *OutputPathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &OutputPathSanitizer{homeExpander: resolvedExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and removes empty or duplicate entries.
func (sanitizer *OutputPathSanitizer) Sanitize(candidatePaths []string) []string {
	expander := NewHomeExpander()
	if sanitizer != nil && sanitizer.homeExpander != nil {
		expander = sanitizer.homeExpander
	}

	seenPaths := make(map[string]struct{}, len(candidatePaths))
	sanitizedPaths := make([]string, 0, len(candidatePaths))
	for candidateIndex := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePaths[candidateIndex])
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedPath := expander.Expand(trimmedCandidate)
		if len(expandedPath) == 0 {
			continue
		}

		if _, alreadySeen := seenPaths[expandedPath]; alreadySeen {
			continue
		}
		seenPaths[expandedPath] = struct{}{}

		sanitizedPaths = append(sanitizedPaths, expandedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}

	return sanitizedPaths
}
