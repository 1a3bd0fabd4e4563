package parser

import (
	"fmt"
	"strings"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

const (
	// DefaultMaxLength is the default limit on raw rule text, in bytes.
	DefaultMaxLength = 64 * 1024

	// DefaultMaxDepth is the default limit on parenthesis nesting.
	DefaultMaxDepth = 256
)

// Parser builds rule ASTs from rule text or tokens.
// A Parser holds only configuration and is safe for concurrent use.
type Parser struct {
	maxLength int // Maximum raw rule length in bytes (default: 64KiB)
	maxDepth  int // Maximum parenthesis nesting (default: 256)
}

// NewParser creates a new parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxLength: DefaultMaxLength,
		maxDepth:  DefaultMaxDepth,
	}
}

// WithMaxLength sets the maximum raw rule length. Zero or less disables the check.
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// WithMaxDepth sets the maximum parenthesis nesting. Zero or less disables the check.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Result is a parsed rule.
type Result struct {
	AST        ast.Node // Root of the tree
	RuleString string   // Canonical rule text
}

// ParseString canonicalizes, tokenizes, and parses raw rule text.
func (p *Parser) ParseString(raw string) (*Result, error) {
	if p.maxLength > 0 && len(raw) > p.maxLength {
		return nil, rerrors.New(rerrors.KindEmptyOrMalformedExpression,
			fmt.Sprintf("rule length %d exceeds maximum %d bytes", len(raw), p.maxLength))
	}

	canonical, err := Canonicalize(raw)
	if err != nil {
		return nil, err
	}

	tokens, err := Tokenize(canonical)
	if err != nil {
		return nil, err
	}

	root, err := p.Parse(tokens)
	if err != nil {
		return nil, err
	}

	return &Result{AST: root, RuleString: canonical}, nil
}

// stackKind tags an element of the parse stack.
type stackKind int

const (
	stackMarker     stackKind = iota // Open parenthesis
	stackNode                        // Operand or folded operator
	stackConnective                  // AND/OR waiting for its children
)

type stackItem struct {
	kind       stackKind
	node       ast.Node
	connective ast.Connective
}

// Parse builds an AST from tokens.
//
// "(" pushes a marker; ")" pops back to the nearest marker and folds that
// group; AND/OR push a connective; a word starts a "field comparator literal"
// condition. The remaining stack is folded once all tokens are consumed.
func (p *Parser) Parse(tokens []Token) (ast.Node, error) {
	var stack []stackItem
	depth := 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case TokenLParen:
			depth++
			if p.maxDepth > 0 && depth > p.maxDepth {
				return nil, rerrors.New(rerrors.KindEmptyOrMalformedExpression,
					fmt.Sprintf("parenthesis nesting exceeds maximum depth %d", p.maxDepth))
			}
			stack = append(stack, stackItem{kind: stackMarker})

		case TokenRParen:
			mark := -1
			for j := len(stack) - 1; j >= 0; j-- {
				if stack[j].kind == stackMarker {
					mark = j
					break
				}
			}
			if mark < 0 {
				return nil, rerrors.New(rerrors.KindUnmatchedCloseParen,
					"closing parenthesis has no matching opening parenthesis").
					WithFragment(joinTokens(tokens[:i+1]))
			}

			group := stack[mark+1:]
			node, err := fold(group)
			if err != nil {
				return nil, err
			}
			stack = append(stack[:mark], stackItem{kind: stackNode, node: node})
			depth--

		case TokenConnective:
			stack = append(stack, stackItem{kind: stackConnective, connective: ast.Connective(tok.Text)})

		case TokenComparator:
			return nil, invalidCondition(tokens, i)

		default:
			if i+2 >= len(tokens) || tokens[i+1].Kind != TokenComparator || tokens[i+2].Kind != TokenWord {
				return nil, invalidCondition(tokens, i)
			}
			operand := ast.NewOperand(tok.Text, ast.Comparator(tokens[i+1].Text), tokens[i+2].Text)
			stack = append(stack, stackItem{kind: stackNode, node: operand})
			i += 2
		}
	}

	if len(stack) == 0 {
		return nil, rerrors.New(rerrors.KindEmptyOrMalformedExpression, "rule is empty")
	}
	return fold(stack)
}

// fold reduces node (connective node)* to one tree, strictly left to right.
func fold(items []stackItem) (ast.Node, error) {
	if len(items) == 0 {
		return nil, rerrors.New(rerrors.KindEmptyOrMalformedExpression, "empty parenthesis group").
			WithFragment("()")
	}
	if items[0].kind != stackNode {
		return nil, malformed(items[0])
	}

	current := items[0].node
	for k := 1; k < len(items); k += 2 {
		if items[k].kind != stackConnective {
			return nil, malformed(items[k])
		}
		if k+1 >= len(items) {
			return nil, rerrors.New(rerrors.KindEmptyOrMalformedExpression,
				fmt.Sprintf("connective %s has no right-hand condition", items[k].connective)).
				WithFragment(string(items[k].connective))
		}
		if items[k+1].kind != stackNode {
			return nil, malformed(items[k+1])
		}
		current = ast.NewOperator(items[k].connective, current, items[k+1].node)
	}
	return current, nil
}

func malformed(it stackItem) *rerrors.Error {
	switch it.kind {
	case stackMarker:
		return rerrors.New(rerrors.KindEmptyOrMalformedExpression, "opening parenthesis is never closed").
			WithFragment("(")
	case stackConnective:
		return rerrors.New(rerrors.KindEmptyOrMalformedExpression,
			fmt.Sprintf("connective %s is not between two conditions", it.connective)).
			WithFragment(string(it.connective))
	default:
		return rerrors.New(rerrors.KindEmptyOrMalformedExpression,
			"conditions must be joined by AND or OR").
			WithFragment(it.node.String())
	}
}

func invalidCondition(tokens []Token, i int) *rerrors.Error {
	end := min(i+3, len(tokens))
	return rerrors.New(rerrors.KindInvalidConditionFormat,
		fmt.Sprintf("expected 'field comparator literal' at %q", tokens[i].Text)).
		WithFragment(joinTokens(tokens[i:end])).
		WithSuggestion(rerrors.SuggestComparator())
}

func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
