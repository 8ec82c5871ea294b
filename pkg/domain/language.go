// Package domain defines the core types shared by the locator, selection and command packages.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a source language Jest can run.
type Language string

// Supported languages for test block extraction.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript"
)

// LanguageFromPath maps a file extension to a Language.
// Returns "" for files jest does not transform by default.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	default:
		return ""
	}
}
