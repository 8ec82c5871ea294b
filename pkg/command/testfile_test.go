package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTestFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{name: "js", path: "/p/src/index.spec.js", want: true},
		{name: "ts", path: "/p/src/index.spec.ts", want: true},
		{name: "jsx", path: "/p/src/App.test.jsx", want: true},
		{name: "tsx", path: "/p/src/App.test.tsx", want: true},
		{name: "markdown", path: "/p/README.md", want: false},
		{name: "empty", path: "", want: false},
		{
			name:     "custom base pattern",
			path:     "/p/src/index.spec.js",
			patterns: []string{"*.test.js"},
			want:     false,
		},
		{
			name:     "path pattern",
			path:     "src/__tests__/util.js",
			patterns: []string{"**/__tests__/*.{js,ts}"},
			want:     true,
		},
		{
			name:     "empty patterns match nothing",
			path:     "/p/src/index.spec.js",
			patterns: []string{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTestFile(tt.path, tt.patterns))
		})
	}
}
