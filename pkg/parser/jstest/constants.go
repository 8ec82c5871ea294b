package jstest

import (
	"github.com/specvital/jester/pkg/domain"
)

const (
	FuncDescribe = "describe"
	FuncIt       = "it"
	FuncTest     = "test"

	ModifierConcurrent = "concurrent"
	ModifierEach       = "each"
	ModifierFailing    = "failing"
	ModifierOnly       = "only"
	ModifierSkip       = "skip"
	ModifierTodo       = "todo"
)

var SkippedFunctionAliases = map[string]string{
	"xdescribe": FuncDescribe,
	"xit":       FuncIt,
	"xtest":     FuncTest,
}

var FocusedFunctionAliases = map[string]string{
	"fdescribe": FuncDescribe,
	"fit":       FuncIt,
}

// BlockKindOf reports whether a base function name opens a suite or a test.
func BlockKindOf(funcName string) (domain.BlockKind, bool) {
	switch funcName {
	case FuncDescribe:
		return domain.BlockKindSuite, true
	case FuncIt, FuncTest:
		return domain.BlockKindTest, true
	default:
		return "", false
	}
}

func ParseModifierStatus(modifier string) domain.TestStatus {
	switch modifier {
	case ModifierSkip:
		return domain.TestStatusSkipped
	case ModifierTodo:
		return domain.TestStatusTodo
	case ModifierOnly:
		return domain.TestStatusFocused
	default:
		return domain.TestStatusActive
	}
}
