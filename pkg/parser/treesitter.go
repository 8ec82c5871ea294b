// Package parser holds tree-sitter helpers shared by the test block extractors.
package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/jester/pkg/domain"
)

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	if start > sourceLen || end > sourceLen || start > end {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// GetLocation converts a tree-sitter node position to a [domain.Location].
// Line numbers are converted to 1-based indexing.
func GetLocation(node *sitter.Node, filename string) domain.Location {
	start := node.StartPoint()
	end := node.EndPoint()

	return domain.Location{
		File:      filename,
		StartLine: int(start.Row) + 1,
		EndLine:   int(end.Row) + 1,
		StartCol:  int(start.Column),
		EndCol:    int(end.Column),
	}
}

// PointFromLineColumn converts a 1-based line and 1-based column, as editors
// report them, into a tree-sitter point. Values below 1 clamp to the start.
func PointFromLineColumn(line, column int) sitter.Point {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	return sitter.Point{Row: uint32(line - 1), Column: uint32(column - 1)}
}

// ContainsPoint reports whether p lies within node, both ends inclusive.
func ContainsPoint(node *sitter.Node, p sitter.Point) bool {
	start := node.StartPoint()
	end := node.EndPoint()
	return !pointLess(p, start) && !pointLess(end, p)
}

func pointLess(a, b sitter.Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Column < b.Column
}
