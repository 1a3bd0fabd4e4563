package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/combiner"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/evaluator"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/metrics"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/tracing"
)

// ErrInvalidInput is returned for requests the engine never sees, such as a
// blank rule name.
var ErrInvalidInput = errors.New("invalid input")

// Operation names used in logs, metrics and span names.
const (
	OpParse    = "parse"
	OpEvaluate = "evaluate"
	OpCombine  = "combine"
	OpCreate   = "create"
	OpGet      = "get"
	OpList     = "list"
	OpDelete   = "delete"
)

// Error kind labels for failures that are not engine errors.
const (
	KindNotFound     = "not_found"
	KindInvalidInput = "invalid_input"
	KindInternal     = "internal"
)

// Options configures a Service. Zero values are usable.
type Options struct {
	Parser  *parser.Parser     // Defaults to parser.NewParser()
	Logger  *slog.Logger       // Defaults to slog.Default()
	Metrics *metrics.Collector // Nil disables metrics
	Tracer  *tracing.Tracer    // Nil disables tracing
}

// Service implements the rule operations on top of a store.
type Service struct {
	store     store.Store
	parser    *parser.Parser
	evaluator *evaluator.Evaluator
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
}

// New creates a service backed by st.
func New(st store.Store, opts Options) *Service {
	if opts.Parser == nil {
		opts.Parser = parser.NewParser()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:     st,
		parser:    opts.Parser,
		evaluator: evaluator.New(opts.Logger),
		logger:    opts.Logger.With("component", "service"),
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
	}
}

// Store returns the backing store.
func (s *Service) Store() store.Store {
	return s.store
}

// CombineResult is a stored combined rule and how it was built.
type CombineResult struct {
	Rule       *store.Rule
	Connective ast.Connective
	Counts     combiner.Counts
}

// ParseRule parses rule text without storing it.
func (s *Service) ParseRule(ctx context.Context, ruleString string) (res *parser.Result, err error) {
	ctx, done := s.begin(ctx, OpParse)
	defer func() { done(err) }()

	return s.parser.ParseString(ruleString)
}

// EvaluateAST evaluates tree against record without touching the store.
func (s *Service) EvaluateAST(ctx context.Context, tree ast.Node, record evaluator.Record) (ok bool, err error) {
	ctx, done := s.begin(ctx, OpEvaluate)
	defer func() { done(err) }()

	ok, err = s.evaluator.Evaluate(tree, record)
	if err == nil {
		s.metrics.RecordEvaluation(ok)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(tracing.AttrResult, ok))
	}
	return ok, err
}

// CombineStrings parses each rule text and combines the trees without
// storing anything.
func (s *Service) CombineStrings(ctx context.Context, ruleStrings []string) (res *combiner.Result, err error) {
	ctx, done := s.begin(ctx, OpCombine)
	defer func() { done(err) }()

	trees := make([]ast.Node, len(ruleStrings))
	canonical := make([]string, len(ruleStrings))
	for i, raw := range ruleStrings {
		parsed, err := s.parser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		trees[i], canonical[i] = parsed.AST, parsed.RuleString
	}

	res, err = combiner.Combine(trees, canonical)
	if err != nil {
		return nil, err
	}
	s.recordCombine(ctx, res, len(trees))
	return res, nil
}

// CreateRule parses ruleString and stores it under name.
func (s *Service) CreateRule(ctx context.Context, name, ruleString string) (rule *store.Rule, err error) {
	ctx, done := s.begin(ctx, OpCreate)
	defer func() { done(err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: rule name cannot be empty", ErrInvalidInput)
	}

	parsed, err := s.parser.ParseString(ruleString)
	if err != nil {
		return nil, err
	}

	rule = &store.Rule{Name: name, RuleString: parsed.RuleString, AST: parsed.AST}
	if _, err := s.store.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to store rule: %w", err)
	}

	tracing.SetRuleAttributes(trace.SpanFromContext(ctx), rule.ID, rule.Name)
	s.log(ctx).Info("rule created", "rule_id", rule.ID, "rule_name", rule.Name, "rule_string", rule.RuleString)
	s.refreshStoredRules(ctx)
	return rule, nil
}

// GetRule returns a stored rule.
func (s *Service) GetRule(ctx context.Context, id string) (rule *store.Rule, err error) {
	ctx, done := s.begin(ctx, OpGet)
	defer func() { done(err) }()

	return s.store.Get(ctx, id)
}

// ListRules returns all stored rules in creation order.
func (s *Service) ListRules(ctx context.Context) (rules []*store.Rule, err error) {
	ctx, done := s.begin(ctx, OpList)
	defer func() { done(err) }()

	return s.store.List(ctx)
}

// DeleteRule removes a stored rule.
func (s *Service) DeleteRule(ctx context.Context, id string) (err error) {
	ctx, done := s.begin(ctx, OpDelete)
	defer func() { done(err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log(ctx).Info("rule deleted", "rule_id", id)
	s.refreshStoredRules(ctx)
	return nil
}

// EvaluateRule evaluates the stored rule id against record.
func (s *Service) EvaluateRule(ctx context.Context, id string, record evaluator.Record) (ok bool, err error) {
	ctx, done := s.begin(ctx, OpEvaluate)
	defer func() { done(err) }()

	rule, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	span := trace.SpanFromContext(ctx)
	tracing.SetRuleAttributes(span, rule.ID, rule.Name)
	span.SetAttributes(attribute.Int(tracing.AttrRecordFields, len(record)))

	ok, err = s.evaluator.Evaluate(rule.AST, record)
	if err != nil {
		s.log(ctx).Warn("rule evaluation failed", "rule_id", id, "error", err)
		return false, err
	}

	s.metrics.RecordEvaluation(ok)
	span.SetAttributes(attribute.Bool(tracing.AttrResult, ok))
	s.log(ctx).Info("rule evaluated", "rule_id", id, "result", ok)
	return ok, nil
}

// CombineRules fetches the rules ids in order, combines them and stores the
// result under name. The first missing id aborts the combination.
func (s *Service) CombineRules(ctx context.Context, name string, ids []string) (res *CombineResult, err error) {
	ctx, done := s.begin(ctx, OpCombine)
	defer func() { done(err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: rule name cannot be empty", ErrInvalidInput)
	}

	trees := make([]ast.Node, 0, len(ids))
	ruleStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		rule, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		trees = append(trees, rule.AST)
		ruleStrings = append(ruleStrings, rule.RuleString)
	}

	combined, err := combiner.Combine(trees, ruleStrings)
	if err != nil {
		return nil, err
	}

	rule := &store.Rule{Name: name, RuleString: combined.RuleString, AST: combined.AST}
	if _, err := s.store.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to store combined rule: %w", err)
	}

	s.recordCombine(ctx, combined, len(ids))
	tracing.SetRuleAttributes(trace.SpanFromContext(ctx), rule.ID, rule.Name)
	s.log(ctx).Info("rules combined",
		"rule_id", rule.ID,
		"rule_name", rule.Name,
		"sources", len(ids),
		"connective", string(combined.Connective),
	)
	s.refreshStoredRules(ctx)

	return &CombineResult{Rule: rule, Connective: combined.Connective, Counts: combined.Counts}, nil
}

// ErrorKind classifies err for metrics and logs: the engine error kind when
// there is one, otherwise not_found, invalid_input or internal.
func ErrorKind(err error) string {
	if kind := rerrors.KindOf(err); kind != "" {
		return string(kind)
	}
	switch {
	case errors.Is(err, store.ErrRuleNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, store.ErrInvalidRule):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// begin starts the span for op and returns a func that finishes it.
func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "rules."+op)

	return ctx, func(err error) {
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
			kind := ErrorKind(err)
			s.metrics.RecordError(kind)
			tracing.SetErrorKind(span, kind)
			s.log(ctx).Debug("operation failed", "operation", op, "kind", kind, "error", err)
		}
		s.metrics.RecordOperation(op, status, time.Since(start))
		tracing.End(span, err)
	}
}

func (s *Service) recordCombine(ctx context.Context, res *combiner.Result, n int) {
	s.metrics.RecordCombine(string(res.Connective), n)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(tracing.AttrConnective, string(res.Connective)),
		attribute.Int(tracing.AttrRuleCount, n),
	)
}

func (s *Service) refreshStoredRules(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		s.log(ctx).Warn("failed to count stored rules", "error", err)
		return
	}
	s.metrics.SetStoredRules(n)
}

// RefreshMetrics updates gauges derived from the store.
func (s *Service) RefreshMetrics(ctx context.Context) {
	s.refreshStoredRules(ctx)
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
