package tspool_test

import (
	"context"
	"sync"
	"testing"

	"github.com/specvital/jester/pkg/domain"
	"github.com/specvital/jester/pkg/parser/tspool"
)

func TestParse_RaceFree(t *testing.T) {
	t.Parallel()

	const goroutines = 50
	source := []byte("test('adds', () => {});")

	var wg sync.WaitGroup
	wg.Add(goroutines)

	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := tspool.Parse(context.Background(), domain.LanguageTypeScript, source)
			if err != nil {
				errCh <- err
				return
			}
			defer tree.Close()
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("Parse failed: %v", err)
	}
}

func TestGetLanguage_ReturnsCorrectLanguages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang domain.Language
	}{
		{"JavaScript", domain.LanguageJavaScript},
		{"TypeScript", domain.LanguageTypeScript},
		{"TSX", domain.LanguageTSX},
		{"Unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if lang := tspool.GetLanguage(tt.lang); lang == nil {
				t.Errorf("GetLanguage(%v) returned nil", tt.lang)
			}
		})
	}
}

func TestParse_ValidOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lang   domain.Language
		source string
	}{
		{
			name:   "TypeScript const",
			lang:   domain.LanguageTypeScript,
			source: "const x: number = 1;",
		},
		{
			name:   "JavaScript describe",
			lang:   domain.LanguageJavaScript,
			source: "describe('m', () => { it('works', () => {}); });",
		},
		{
			name:   "TSX component test",
			lang:   domain.LanguageTSX,
			source: "test('renders', () => { render(<App />); });",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := tspool.Parse(context.Background(), tt.lang, []byte(tt.source))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			defer tree.Close()

			root := tree.RootNode()
			if root == nil {
				t.Fatal("Root node is nil")
			}
			if root.ChildCount() == 0 {
				t.Error("Expected children in parsed tree")
			}
			if root.HasError() {
				t.Errorf("unexpected syntax error in %q", tt.source)
			}
		})
	}
}

func TestQueryWithCache(t *testing.T) {
	t.Parallel()

	source := []byte("describe('a', () => { test('b', () => {}); });")
	tree, err := tspool.Parse(context.Background(), domain.LanguageJavaScript, source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	results, err := tspool.QueryWithCache(tree.RootNode(), source, domain.LanguageJavaScript, "(call_expression) @call")
	if err != nil {
		t.Fatalf("QueryWithCache failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d calls, want 2", len(results))
	}
	if results[0].Captures["call"] == nil {
		t.Error("missing @call capture")
	}

	if _, err := tspool.QueryWithCache(tree.RootNode(), source, domain.LanguageJavaScript, "(not_a_node"); err == nil {
		t.Error("expected error for malformed query")
	}
}
