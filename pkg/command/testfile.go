package command

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultTestFilePatterns are the files a file or block run accepts.
var DefaultTestFilePatterns = []string{"*.js", "*.jsx", "*.ts", "*.tsx"}

// IsTestFile reports whether path matches one of patterns. Patterns without
// a slash are matched against the base name, others against the whole
// slash-separated path. Nil patterns mean DefaultTestFilePatterns.
func IsTestFile(path string, patterns []string) bool {
	if path == "" {
		return false
	}
	if patterns == nil {
		patterns = DefaultTestFilePatterns
	}

	slashPath := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, pattern := range patterns {
		target := base
		if strings.Contains(pattern, "/") {
			target = slashPath
		}
		matched, err := doublestar.Match(pattern, target)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
