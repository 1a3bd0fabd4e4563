package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc := service.New(store.NewMemoryStore(), service.Options{Logger: logging.Discard()})
	mux := http.NewServeMux()
	NewRulesHandler(svc, logging.Discard()).Register(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createRule(t *testing.T, h http.Handler, name, rule string) RuleResponse {
	t.Helper()
	body := fmt.Sprintf(`{"rule_name": %q, "rule_string": %q}`, name, rule)
	rec := do(t, h, http.MethodPost, "/rules", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /rules code = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[RuleResponse](t, rec)
}

func TestCreateGetListDelete(t *testing.T) {
	mux := newTestMux(t)

	created := createRule(t, mux, "adults", "((age >= 18))")
	if created.RuleString != "(age >= 18)" {
		t.Errorf("rule_string = %q, want %q", created.RuleString, "(age >= 18)")
	}
	if created.RuleAST != nil {
		t.Error("create response includes rule_ast, want it omitted")
	}

	rec := do(t, mux, http.MethodGet, "/rules/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rules/{id} code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"rule_ast":{"node_type":"operand","value":"age >= 18"}`) {
		t.Errorf("GET body = %s, want rule_ast with unescaped comparator", rec.Body.String())
	}

	createRule(t, mux, "sales", "department = 'Sales'")
	list := decode[ListResponse](t, do(t, mux, http.MethodGet, "/rules", ""))
	if list.Count != 2 || len(list.Rules) != 2 {
		t.Fatalf("list count = %d (%d rules), want 2", list.Count, len(list.Rules))
	}
	if list.Rules[0].RuleName != "adults" || list.Rules[1].RuleName != "sales" {
		t.Errorf("list order = %q, %q, want adults, sales", list.Rules[0].RuleName, list.Rules[1].RuleName)
	}

	if rec := do(t, mux, http.MethodDelete, "/rules/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE code = %d, want %d", rec.Code, http.StatusNoContent)
	}
	rec = do(t, mux, http.MethodGet, "/rules/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted code = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if body := decode[ErrorResponse](t, rec); body.Error.Kind != service.KindNotFound {
		t.Errorf("error kind = %q, want %q", body.Error.Kind, service.KindNotFound)
	}
}

func TestCreateErrors(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name     string
		body     string
		code     int
		kind     string
		fragment string
	}{
		{"empty body", "", http.StatusBadRequest, KindInvalidRequest, ""},
		{"bad json", "{", http.StatusBadRequest, KindInvalidRequest, ""},
		{"blank name", `{"rule_name": "", "rule_string": "a = 1"}`, http.StatusBadRequest, service.KindInvalidInput, ""},
		{"unbalanced", `{"rule_name": "r", "rule_string": "(age > 30"}`, http.StatusBadRequest, string(rerrors.KindUnbalancedParentheses), ""},
		{"bad condition", `{"rule_name": "r", "rule_string": "age > AND x = 1"}`, http.StatusBadRequest, string(rerrors.KindInvalidConditionFormat), "age > AND"},
		{"empty rule", `{"rule_name": "r", "rule_string": "   "}`, http.StatusBadRequest, string(rerrors.KindEmptyOrMalformedExpression), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/rules", tt.body)
			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			body := decode[ErrorResponse](t, rec)
			if body.Error.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", body.Error.Kind, tt.kind)
			}
			if tt.fragment != "" && body.Error.Fragment != tt.fragment {
				t.Errorf("fragment = %q, want %q", body.Error.Fragment, tt.fragment)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	mux := newTestMux(t)
	rule := createRule(t, mux, "r",
		"((age > 30 AND department = 'Sales') OR (age < 25 AND department = 'Marketing')) AND (salary > 50000 OR experience > 5)")

	tests := []struct {
		name   string
		body   string
		code   int
		result bool
		kind   string
	}{
		{"true", `{"data": {"age": 35, "department": "Sales", "salary": 60000, "experience": 3}}`, http.StatusOK, true, ""},
		{"false", `{"data": {"age": 28, "department": "Sales", "salary": 60000, "experience": 10}}`, http.StatusOK, false, ""},
		{"large integer", `{"data": {"age": 35, "department": "Sales", "salary": 9007199254740993, "experience": 0}}`, http.StatusOK, true, ""},
		{"missing field", `{"data": {"age": 35, "department": "Sales"}}`, http.StatusBadRequest, false, string(rerrors.KindFieldNotFound)},
		{"type mismatch", `{"data": {"age": "old", "department": "Sales", "salary": 1, "experience": 1}}`, http.StatusBadRequest, false, string(rerrors.KindTypeMismatch)},
		{"no data", `{}`, http.StatusBadRequest, false, KindInvalidRequest},
		{"data not object", `{"data": [1]}`, http.StatusBadRequest, false, KindInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/rules/"+rule.ID+"/evaluate", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.kind != "" {
				if body := decode[ErrorResponse](t, rec); body.Error.Kind != tt.kind {
					t.Errorf("kind = %q, want %q", body.Error.Kind, tt.kind)
				}
				return
			}
			if got := decode[EvaluateResponse](t, rec).Result; got != tt.result {
				t.Errorf("result = %v, want %v", got, tt.result)
			}
		})
	}

	rec := do(t, mux, http.MethodPost, "/rules/missing/evaluate", `{"data": {}}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("evaluate missing rule code = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestEvaluate_Suggestion(t *testing.T) {
	mux := newTestMux(t)
	rule := createRule(t, mux, "r", "salary > 10")

	rec := do(t, mux, http.MethodPost, "/rules/"+rule.ID+"/evaluate", `{"data": {"salry": 20}}`)
	body := decode[ErrorResponse](t, rec)
	if body.Error.Field != "salary" {
		t.Errorf("field = %q, want %q", body.Error.Field, "salary")
	}
	if body.Error.Suggestion != "Did you mean 'salry'?" {
		t.Errorf("suggestion = %q, want %q", body.Error.Suggestion, "Did you mean 'salry'?")
	}
}

func TestCombine(t *testing.T) {
	mux := newTestMux(t)
	r1 := createRule(t, mux, "r1", "age > 30 AND department = 'Sales'")
	r2 := createRule(t, mux, "r2", "salary > 50000 OR experience > 5")
	r3 := createRule(t, mux, "r3", "age < 25 AND department = 'Marketing'")

	body := fmt.Sprintf(`{"rule_name": "combined", "ids": [%q, %q, %q]}`, r1.ID, r2.ID, r3.ID)
	rec := do(t, mux, http.MethodPost, "/rules/combine", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("combine code = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[CombineResponse](t, rec)
	if resp.Connective != "AND" {
		t.Errorf("connective = %q, want AND", resp.Connective)
	}
	want := "((age > 30 AND department = 'Sales' AND (salary > 50000 OR experience > 5)) AND (age < 25 AND department = 'Marketing'))"
	if resp.RuleString != want {
		t.Errorf("rule_string = %q, want %q", resp.RuleString, want)
	}

	got := decode[RuleResponse](t, do(t, mux, http.MethodGet, "/rules/"+resp.NewRuleID, ""))
	if got.RuleName != "combined" || got.RuleString != want {
		t.Errorf("stored combined = %+v", got)
	}
}

func TestCombineErrors(t *testing.T) {
	mux := newTestMux(t)
	r1 := createRule(t, mux, "r1", "a = 1")

	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"empty ids", `{"rule_name": "c", "ids": []}`, http.StatusBadRequest, string(rerrors.KindEmptyRuleSet)},
		{"missing id", fmt.Sprintf(`{"rule_name": "c", "ids": [%q, "nope"]}`, r1.ID), http.StatusNotFound, service.KindNotFound},
		{"no name", fmt.Sprintf(`{"ids": [%q]}`, r1.ID), http.StatusBadRequest, service.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/rules/combine", tt.body)
			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if got := decode[ErrorResponse](t, rec).Error.Kind; got != tt.kind {
				t.Errorf("kind = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestParse(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/parse", `{"rule_string": "a = 'x' OR b > 2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("parse code = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[ParseResponse](t, rec)
	if resp.RuleString != "a = 'x' OR b > 2" {
		t.Errorf("rule_string = %q", resp.RuleString)
	}
	if resp.RuleAST.Root == nil || resp.RuleAST.Root.String() != "(a = 'x' OR b > 2)" {
		t.Errorf("rule_ast = %v", resp.RuleAST.Root)
	}

	list := decode[ListResponse](t, do(t, mux, http.MethodGet, "/rules", ""))
	if list.Count != 0 {
		t.Errorf("parse stored %d rules, want 0", list.Count)
	}

	rec = do(t, mux, http.MethodPost, "/parse", `{"rule_string": "a = 1)"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("parse bad code = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse", rerrors.New(rerrors.KindUnmatchedCloseParen, "x"), http.StatusBadRequest},
		{"eval", rerrors.New(rerrors.KindUnsupportedOperator, "x"), http.StatusBadRequest},
		{"combine", rerrors.New(rerrors.KindRuleStringMismatch, "x"), http.StatusBadRequest},
		{"invalid tree", rerrors.New(rerrors.KindInvalidTree, "x"), http.StatusInternalServerError},
		{"not found", fmt.Errorf("get: %w", store.ErrRuleNotFound), http.StatusNotFound},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"request", badRequest("x"), http.StatusBadRequest},
		{"other", errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}

	body := errorBody(errors.New("secret path /var/db"), http.StatusInternalServerError)
	if strings.Contains(body.Message, "secret") {
		t.Errorf("internal error message leaked: %q", body.Message)
	}
}
