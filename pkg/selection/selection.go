// Package selection finds the Jest block (describe, test or it) enclosing an
// editor cursor so that a single block can be run with jest -t.
package selection

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/jester/pkg/domain"
	"github.com/specvital/jester/pkg/parser"
	"github.com/specvital/jester/pkg/parser/jstest"
	"github.com/specvital/jester/pkg/parser/tspool"
)

const callQuery = `(call_expression) @call`

// linePattern matches a block call at the start of a line. The same quote
// must close the name.
var linePattern = regexp.MustCompile(`^(describe|test|it)\s*\((['"])([^'"]*)(['"])`)

// Position is a 1-based editor cursor position. Column counts bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// FindTestName returns the innermost Jest block around pos whose name is a
// literal string. Blocks with computed names are passed over in favour of the
// next enclosing one. Files in a language tree-sitter cannot parse fall back
// to MatchLine on the cursor line and the lines above it.
func FindTestName(ctx context.Context, source []byte, filename string, pos Position) (domain.Block, bool, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return domain.Block{}, false, nil
	}

	lang := domain.LanguageFromPath(filename)
	if lang == "" {
		block, ok := findByLines(source, filename, pos)
		return block, ok, nil
	}

	tree, err := tspool.Parse(ctx, lang, source)
	if err != nil {
		return domain.Block{}, false, fmt.Errorf("selection: %w", err)
	}
	defer tree.Close()

	results, err := tspool.QueryWithCache(tree.RootNode(), source, lang, callQuery)
	if err != nil {
		return domain.Block{}, false, fmt.Errorf("selection: %w", err)
	}

	point := parser.PointFromLineColumn(pos.Line, pos.Column)

	// Matches arrive in document order, so enclosing calls precede the calls
	// they contain and the last decoded block is the innermost one.
	var chain []domain.Block
	for _, r := range results {
		call := r.Captures["call"]
		if call == nil || !parser.ContainsPoint(call, point) {
			continue
		}
		if block, ok := decodeCall(call, source, filename); ok {
			chain = append(chain, block)
		}
	}

	if len(chain) == 0 {
		return domain.Block{}, false, nil
	}

	block := chain[len(chain)-1]
	for _, outer := range chain[:len(chain)-1] {
		if outer.Kind == domain.BlockKindSuite {
			block.Parents = append(block.Parents, outer.Name)
		}
	}
	return block, true, nil
}

func decodeCall(call *sitter.Node, source []byte, filename string) (domain.Block, bool) {
	funcNode := call.ChildByFieldName("function")
	args := call.ChildByFieldName("arguments")
	if funcNode == nil || args == nil {
		return domain.Block{}, false
	}

	each := false
	if funcNode.Type() == "call_expression" {
		// test.each(table)(name, fn): the block function is the inner callee.
		funcNode = funcNode.ChildByFieldName("function")
		if funcNode == nil || !strings.HasSuffix(parser.GetNodeText(funcNode, source), "."+jstest.ModifierEach) {
			return domain.Block{}, false
		}
		each = true
	}

	funcName, status, modifier := jstest.ParseFunctionName(funcNode, source)
	kind, ok := jstest.BlockKindOf(funcName)
	if !ok {
		return domain.Block{}, false
	}

	name, ok := jstest.LiteralName(args, source)
	if !ok {
		return domain.Block{}, false
	}

	if each && modifier == "" {
		modifier = jstest.ModifierEach
	}

	return domain.Block{
		Kind:     kind,
		Location: parser.GetLocation(call, filename),
		Modifier: modifier,
		Name:     name,
		Status:   status,
	}, true
}

// MatchLine extracts the block function and name from a line that starts
// with describe(, test( or it( followed by a quoted name.
func MatchLine(text string) (funcName, name string, ok bool) {
	m := linePattern.FindStringSubmatch(text)
	if m == nil || m[2] != m[4] {
		return "", "", false
	}
	return m[1], m[3], true
}

func findByLines(source []byte, filename string, pos Position) (domain.Block, bool) {
	lines := strings.Split(string(source), "\n")
	start := min(max(pos.Line, 1), len(lines))

	for i := start - 1; i >= 0; i-- {
		funcName, name, ok := MatchLine(strings.TrimLeft(lines[i], " \t"))
		if !ok {
			continue
		}
		kind, _ := jstest.BlockKindOf(funcName)
		return domain.Block{
			Kind: kind,
			Location: domain.Location{
				File:      filename,
				StartLine: i + 1,
				EndLine:   i + 1,
			},
			Name:   name,
			Status: domain.TestStatusActive,
		}, true
	}
	return domain.Block{}, false
}
