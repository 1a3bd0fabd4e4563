package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/evaluator"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
)

// RulesHandler serves the rule API on top of a service.
type RulesHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewRulesHandler creates a handler. A nil logger uses slog.Default().
func NewRulesHandler(svc *service.Service, logger *slog.Logger) *RulesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RulesHandler{svc: svc, logger: logger.With("component", "handlers")}
}

// Register adds the rule routes to mux.
func (h *RulesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /rules", h.create)
	mux.HandleFunc("GET /rules", h.list)
	mux.HandleFunc("GET /rules/{id}", h.get)
	mux.HandleFunc("DELETE /rules/{id}", h.delete)
	mux.HandleFunc("POST /rules/{id}/evaluate", h.evaluate)
	mux.HandleFunc("POST /rules/combine", h.combine)
	mux.HandleFunc("POST /parse", h.parse)
}

func (h *RulesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rule, err := h.svc.CreateRule(r.Context(), req.RuleName, req.RuleString)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRuleResponse(rule, false))
}

func (h *RulesHandler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListRules(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := ListResponse{Rules: make([]RuleResponse, 0, len(rules)), Count: len(rules)}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, newRuleResponse(rule, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RulesHandler) get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.svc.GetRule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newRuleResponse(rule, true))
}

func (h *RulesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRule(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RulesHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if len(req.Data) == 0 {
		writeError(w, r, h.logger, badRequest("data is required"))
		return
	}
	record, err := evaluator.DecodeRecord(req.Data)
	if err != nil {
		writeError(w, r, h.logger, badRequest(err.Error()))
		return
	}

	result, err := h.svc.EvaluateRule(r.Context(), r.PathValue("id"), record)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{Result: result})
}

func (h *RulesHandler) combine(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.CombineRules(r.Context(), req.RuleName, req.IDs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, CombineResponse{
		NewRuleID:  res.Rule.ID,
		RuleString: res.Rule.RuleString,
		Connective: string(res.Connective),
	})
}

func (h *RulesHandler) parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.ParseRule(r.Context(), req.RuleString)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{RuleString: res.RuleString, RuleAST: ast.Tree{Root: res.AST}})
}
