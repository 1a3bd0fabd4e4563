package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

// TokenKind classifies a token.
type TokenKind int

const (
	TokenWord       TokenKind = iota // Field name or literal
	TokenLParen                      // (
	TokenRParen                      // )
	TokenConnective                  // AND, OR
	TokenComparator                  // =, >, <, >=, <=
)

// String returns a readable name for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenLParen:
		return "lparen"
	case TokenRParen:
		return "rparen"
	case TokenConnective:
		return "connective"
	case TokenComparator:
		return "comparator"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a rule. Tokens carry no position.
type Token struct {
	Kind TokenKind
	Text string
}

// tokenPattern uses leftmost alternation, so "<=" and ">=" win over "<" and ">".
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_']+|<=|>=|[()=<>]`)

// Tokenize splits s into tokens. Text between tokens must be whitespace;
// anything else fails with KindInvalidConditionFormat and the offending text
// as fragment.
func Tokenize(s string) ([]Token, error) {
	spans := tokenPattern.FindAllStringIndex(s, -1)
	tokens := make([]Token, 0, len(spans))
	prev := 0
	for _, span := range spans {
		if err := checkGap(s[prev:span[0]]); err != nil {
			return nil, err
		}
		m := s[span[0]:span[1]]
		tokens = append(tokens, Token{Kind: classify(m), Text: m})
		prev = span[1]
	}
	if err := checkGap(s[prev:]); err != nil {
		return nil, err
	}
	return tokens, nil
}

func checkGap(gap string) error {
	if bad := strings.TrimSpace(gap); bad != "" {
		return rerrors.New(rerrors.KindInvalidConditionFormat,
			fmt.Sprintf("unexpected character sequence %q", bad)).
			WithFragment(bad)
	}
	return nil
}

func classify(text string) TokenKind {
	switch text {
	case "(":
		return TokenLParen
	case ")":
		return TokenRParen
	case string(ast.And), string(ast.Or):
		return TokenConnective
	}
	if ast.Comparator(text).IsValid() {
		return TokenComparator
	}
	return TokenWord
}
