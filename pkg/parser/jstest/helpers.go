// Package jstest decodes Jest's describe/test/it call shapes from a tree-sitter AST.
package jstest

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/jester/pkg/domain"
	"github.com/specvital/jester/pkg/parser"
)

// UnquoteString strips JavaScript string quotes and resolves escapes.
// Input that is not a well-formed literal is returned unchanged.
func UnquoteString(text string) string {
	if len(text) < 2 {
		return text
	}

	if text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}

	// strconv.Unquote only understands double quotes, so single-quoted
	// literals are rewritten into that form first.
	if text[0] == '\'' && text[len(text)-1] == '\'' {
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		escaped := strings.ReplaceAll(inner, `"`, `\"`)
		if s, err := strconv.Unquote(`"` + escaped + `"`); err == nil {
			return s
		}
		return text
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}

	return text
}

// LiteralName returns the first argument when it is a string literal or a
// template string without substitutions. ok is false for computed names.
func LiteralName(args *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "string":
			return UnquoteString(parser.GetNodeText(child, source)), true
		case "template_string":
			if hasSubstitution(child) {
				return "", false
			}
			return UnquoteString(parser.GetNodeText(child, source)), true
		default:
			return "", false
		}
	}
	return "", false
}

func hasSubstitution(node *sitter.Node) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// ParseFunctionName resolves the callee of a call expression to its base
// Jest function (describe, test, it) with status and modifier.
// An empty name means the callee is not a Jest block function.
func ParseFunctionName(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	switch node.Type() {
	case "identifier":
		return parseIdentifierFunction(node, source)
	case "member_expression":
		return parseMemberExpressionFunction(node, source)
	default:
		return "", domain.TestStatusActive, ""
	}
}

func parseIdentifierFunction(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	name := parser.GetNodeText(node, source)

	if baseName, ok := SkippedFunctionAliases[name]; ok {
		return baseName, domain.TestStatusSkipped, name
	}
	if baseName, ok := FocusedFunctionAliases[name]; ok {
		return baseName, domain.TestStatusFocused, name
	}
	if _, ok := BlockKindOf(name); ok {
		return name, domain.TestStatusActive, ""
	}
	return "", domain.TestStatusActive, ""
}

// parseMemberExpressionFunction handles test.only, describe.skip,
// test.concurrent.only and the like. Chains deeper than two members are ignored.
func parseMemberExpressionFunction(node *sitter.Node, source []byte) (string, domain.TestStatus, string) {
	obj := node.ChildByFieldName("object")
	prop := node.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return "", domain.TestStatusActive, ""
	}

	propName := parser.GetNodeText(prop, source)

	if obj.Type() == "member_expression" {
		innerObj := obj.ChildByFieldName("object")
		innerProp := obj.ChildByFieldName("property")
		if innerObj == nil || innerProp == nil || innerObj.Type() != "identifier" {
			return "", domain.TestStatusActive, ""
		}
		base, _, _ := parseIdentifierFunction(innerObj, source)
		if base == "" {
			return "", domain.TestStatusActive, ""
		}
		middle := parser.GetNodeText(innerProp, source)
		if middle == ModifierConcurrent || middle == ModifierFailing {
			return base, ParseModifierStatus(propName), modifierName(propName)
		}
		return base, ParseModifierStatus(middle), modifierName(middle)
	}

	if obj.Type() != "identifier" {
		return "", domain.TestStatusActive, ""
	}
	base, status, modifier := parseIdentifierFunction(obj, source)
	if base == "" {
		return "", domain.TestStatusActive, ""
	}

	switch propName {
	case ModifierOnly, ModifierSkip, ModifierTodo:
		return base, ParseModifierStatus(propName), propName
	case ModifierConcurrent, ModifierFailing, ModifierEach:
		return base, status, modifier
	default:
		return "", domain.TestStatusActive, ""
	}
}

func modifierName(m string) string {
	if ParseModifierStatus(m) == domain.TestStatusActive {
		return ""
	}
	return m
}
