package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
)

var (
	// ErrRuleNotFound is returned when no rule has the requested id.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidRule is returned by Create for incomplete rules.
	ErrInvalidRule = errors.New("invalid rule")
)

// Rule is a named rule with its parsed tree.
type Rule struct {
	ID         string    `json:"id"`
	Name       string    `json:"rule_name"`
	RuleString string    `json:"rule_string"`
	AST        ast.Node  `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists rules. Implementations are safe for concurrent use.
type Store interface {
	// Create persists rule and returns its id. A new id is assigned when
	// rule.ID is empty; rule.ID and rule.CreatedAt are updated in place.
	Create(ctx context.Context, rule *Rule) (string, error)

	// Get returns the rule with the given id or an error wrapping ErrRuleNotFound.
	Get(ctx context.Context, id string) (*Rule, error)

	// GetByName returns the oldest rule with the given name.
	GetByName(ctx context.Context, name string) (*Rule, error)

	// List returns all rules in creation order.
	List(ctx context.Context) ([]*Rule, error)

	// Delete removes the rule with the given id.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored rules.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// notFound wraps ErrRuleNotFound with the missing key.
func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrRuleNotFound, key)
}

// prepare validates rule and encodes its tree, assigning an id and creation
// time when they are unset.
func prepare(rule *Rule) ([]byte, error) {
	if rule == nil {
		return nil, fmt.Errorf("%w: rule cannot be nil", ErrInvalidRule)
	}
	if rule.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidRule)
	}
	if rule.RuleString == "" {
		return nil, fmt.Errorf("%w: rule string cannot be empty", ErrInvalidRule)
	}
	if rule.AST == nil {
		return nil, fmt.Errorf("%w: ast cannot be nil", ErrInvalidRule)
	}

	data, err := ast.Marshal(rule.AST)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	return data, nil
}

// decode rebuilds a rule from its stored columns.
func decode(id, name, ruleString string, tree []byte, createdAt time.Time) (*Rule, error) {
	root, err := ast.Unmarshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ast of rule %s: %w", id, err)
	}
	return &Rule{
		ID:         id,
		Name:       name,
		RuleString: ruleString,
		AST:        root,
		CreatedAt:  createdAt,
	}, nil
}
