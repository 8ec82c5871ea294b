package domain

import "testing"

func TestBlock_FullName(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "top-level test",
			block: Block{Name: "adds"},
			want:  "adds",
		},
		{
			name:  "nested test",
			block: Block{Name: "adds", Parents: []string{"math", "sum"}},
			want:  "math sum adds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLanguageFromPath(t *testing.T) {
	tests := map[string]Language{
		"/a/index.spec.js":   LanguageJavaScript,
		"/a/Button.test.jsx": LanguageJavaScript,
		"/a/util.test.ts":    LanguageTypeScript,
		"/a/App.test.tsx":    LanguageTSX,
		"/a/README.md":       "",
	}

	for path, want := range tests {
		if got := LanguageFromPath(path); got != want {
			t.Errorf("LanguageFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
