package handlers

import (
	"encoding/json"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
)

// CreateRuleRequest is the body of POST /rules.
type CreateRuleRequest struct {
	RuleName   string `json:"rule_name"`
	RuleString string `json:"rule_string"`
}

// CombineRequest is the body of POST /rules/combine.
type CombineRequest struct {
	RuleName string   `json:"rule_name"`
	IDs      []string `json:"ids"`
}

// EvaluateRequest is the body of POST /rules/{id}/evaluate. Data is decoded
// separately so that numbers keep their exact text.
type EvaluateRequest struct {
	Data json.RawMessage `json:"data"`
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	RuleString string `json:"rule_string"`
}

// RuleResponse describes a stored rule. RuleAST is only set for single-rule
// responses.
type RuleResponse struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	RuleString string     `json:"rule_string"`
	RuleAST    *ast.Tree  `json:"rule_ast,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// ListResponse is the body of GET /rules.
type ListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Count int            `json:"count"`
}

// EvaluateResponse is the body of a successful evaluation.
type EvaluateResponse struct {
	Result bool `json:"result"`
}

// CombineResponse is the body of a successful combination.
type CombineResponse struct {
	NewRuleID  string `json:"new_rule_id"`
	RuleString string `json:"rule_string"`
	Connective string `json:"connective"`
}

// ParseResponse is the body of a successful dry-run parse.
type ParseResponse struct {
	RuleString string   `json:"rule_string"`
	RuleAST    ast.Tree `json:"rule_ast"`
}

// ErrorBody is the payload under "error" in failure responses.
type ErrorBody struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Fragment   string `json:"fragment,omitempty"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func newRuleResponse(r *store.Rule, withAST bool) RuleResponse {
	resp := RuleResponse{ID: r.ID, RuleName: r.Name, RuleString: r.RuleString}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		resp.CreatedAt = &created
	}
	if withAST {
		resp.RuleAST = &ast.Tree{Root: r.AST}
	}
	return resp
}
