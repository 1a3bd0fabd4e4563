package parser

import (
	"fmt"
	"regexp"
	"strings"

	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
)

var (
	// symbolPattern matches the symbols that get padded with spaces.
	// Two-character comparators come first so they are padded as one unit.
	symbolPattern = regexp.MustCompile(`(<=|>=|[()<>=])`)

	// redundantParenPattern matches a pair that wraps exactly one inner pair.
	redundantParenPattern = regexp.MustCompile(`\(\s*\(([^()]+)\)\s*\)`)
)

// Normalize inserts single spaces around parentheses and comparators and
// collapses whitespace runs, so the result splits cleanly on whitespace.
func Normalize(raw string) string {
	padded := symbolPattern.ReplaceAllString(raw, " $1 ")
	return strings.Join(strings.Fields(padded), " ")
}

// CheckBalance verifies that every ")" closes an earlier "(" and that no "("
// is left open.
func CheckBalance(s string) error {
	open := 0
	for i, r := range s {
		switch r {
		case '(':
			open++
		case ')':
			open--
			if open < 0 {
				return rerrors.New(rerrors.KindUnbalancedParentheses,
					fmt.Sprintf("closing parenthesis at offset %d has no matching opening parenthesis", i)).
					WithFragment(fragmentAt(s, i))
			}
		}
	}
	if open > 0 {
		return rerrors.New(rerrors.KindUnbalancedParentheses,
			fmt.Sprintf("%d opening parenthesis not closed", open)).
			WithFragment(s)
	}
	return nil
}

// RemoveRedundantParens collapses "((x))" to "(x)" until nothing changes.
// Iterations are bounded by the length of s.
func RemoveRedundantParens(s string) string {
	for i := 0; i <= len(s); i++ {
		next := redundantParenPattern.ReplaceAllString(s, "($1)")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Canonicalize produces the stored form of a rule: normalized, balance
// checked, redundant pairs collapsed, and no padding inside parentheses.
func Canonicalize(raw string) (string, error) {
	s := Normalize(raw)
	if err := CheckBalance(s); err != nil {
		return "", err
	}
	s = Normalize(RemoveRedundantParens(s))
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, " )", ")")
	return s, nil
}

// fragmentAt returns up to 20 bytes of s ending at offset i.
func fragmentAt(s string, i int) string {
	start := max(i-19, 0)
	return s[start : i+1]
}
