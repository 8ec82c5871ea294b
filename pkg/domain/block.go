package domain

import "strings"

// BlockKind distinguishes describe blocks from test cases.
type BlockKind string

const (
	BlockKindSuite BlockKind = "suite"
	BlockKindTest  BlockKind = "test"
)

// Block is a describe/test/it call found in a test file.
// Parents holds the names of enclosing describe blocks, outermost first.
type Block struct {
	Kind     BlockKind  `json:"kind"`
	Location Location   `json:"location"`
	Modifier string     `json:"modifier,omitempty"`
	Name     string     `json:"name"`
	Parents  []string   `json:"parents,omitempty"`
	Status   TestStatus `json:"status"`
}

// FullName joins enclosing suite names and the block name the way jest
// reports a test's full name.
func (b Block) FullName() string {
	if len(b.Parents) == 0 {
		return b.Name
	}
	parts := make([]string, 0, len(b.Parents)+1)
	parts = append(parts, b.Parents...)
	parts = append(parts, b.Name)
	return strings.Join(parts, " ")
}
