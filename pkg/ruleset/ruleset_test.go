package ruleset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/parser"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
)

const validRuleset = `
rules:
  - name: senior_sales
    rule: "((age > 30 AND department = 'Sales'))"
  - name: high_earner
    rule: "salary > 50000 OR experience > 5"
`

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), validRuleset)

	set, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Path != path {
		t.Errorf("Path = %q, want %q", set.Path, path)
	}
	if got := strings.Join(set.Names(), ","); got != "senior_sales,high_earner" {
		t.Errorf("Names() = %q, want %q", got, "senior_sales,high_earner")
	}
	if got := set.Rules[0].Parsed.RuleString; got != "(age > 30 AND department = 'Sales')" {
		t.Errorf("RuleString = %q, want canonical text", got)
	}
	if set.Rules[1].Parsed.AST.Type() != ast.NodeTypeOperator {
		t.Errorf("rules[1] root type = %v, want operator", set.Rules[1].Parsed.AST.Type())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("Load() succeeded for missing file")
	}
}

func TestParse_Empty(t *testing.T) {
	set, err := Parse(nil, nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if len(set.Rules) != 0 {
		t.Errorf("len(Rules) = %d, want 0", len(set.Rules))
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	data := `
rules:
  - name: ok
    rule: "a = 1"
  - name: ""
    rule: "b = 2"
  - name: broken
    rule: "(a > 1"
  - name: ok
    rule: "c = 3"
  - name: bad_condition
    rule: "a > AND b = 1"
`
	_, err := Parse([]byte(data), nil)

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Parse() error = %v, want *LoadError", err)
	}
	if len(loadErr.Errors) != 4 {
		t.Fatalf("len(Errors) = %d, want 4: %v", len(loadErr.Errors), err)
	}

	wantIndex := []int{1, 2, 3, 4}
	for i, e := range loadErr.Errors {
		if e.Index != wantIndex[i] {
			t.Errorf("Errors[%d].Index = %d, want %d", i, e.Index, wantIndex[i])
		}
	}

	if !errors.Is(err, ErrEmptyName) {
		t.Error("errors.Is(err, ErrEmptyName) = false")
	}
	if !errors.Is(err, ErrDuplicateName) {
		t.Error("errors.Is(err, ErrDuplicateName) = false")
	}
	if !errors.Is(loadErr.Errors[1], rerrors.ErrUnbalancedParentheses) {
		t.Errorf("Errors[1] = %v, want unbalanced parentheses", loadErr.Errors[1])
	}
	if !strings.Contains(err.Error(), `rules[4] "bad_condition"`) {
		t.Errorf("message %q does not name the failing entry", err.Error())
	}
}

func TestParse_UnknownKey(t *testing.T) {
	data := "rules:\n  - name: a\n    rul: \"a = 1\"\n"
	if _, err := Parse([]byte(data), nil); err == nil {
		t.Error("Parse() accepted unknown key")
	}
}

func TestParse_UsesParserLimits(t *testing.T) {
	data := "rules:\n  - name: long\n    rule: \"abcdef = 1\"\n"
	_, err := Parse([]byte(data), parser.NewParser().WithMaxLength(5))
	if rerrors.KindOf(err) != rerrors.KindEmptyOrMalformedExpression {
		t.Errorf("KindOf(err) = %q, want %q", rerrors.KindOf(err), rerrors.KindEmptyOrMalformedExpression)
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	existing := &store.Rule{Name: "high_earner", RuleString: "salary > 1", AST: ast.NewOperand("salary", ast.Gt, "1")}
	if _, err := st.Create(ctx, existing); err != nil {
		t.Fatal(err)
	}

	set, err := Parse([]byte(validRuleset), nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := set.Sync(ctx, st, logging.Discard())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(res.Created) != 1 || res.Created[0] != "senior_sales" {
		t.Errorf("Created = %v, want [senior_sales]", res.Created)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "high_earner" {
		t.Errorf("Skipped = %v, want [high_earner]", res.Skipped)
	}

	kept, err := st.GetByName(ctx, "high_earner")
	if err != nil {
		t.Fatal(err)
	}
	if kept.RuleString != "salary > 1" {
		t.Errorf("existing rule overwritten: %q", kept.RuleString)
	}

	res, err = set.Sync(ctx, st, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 0 {
		t.Errorf("second Sync created %v, want nothing", res.Created)
	}
	if n, _ := st.Count(ctx); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, validRuleset)

	w, err := NewWatcher(path, 50*time.Millisecond, logging.Discard())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(context.Context) error {
			reloads.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(validRuleset), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1 (debounced)", got)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_AlreadyRunning(t *testing.T) {
	path := writeFile(t, t.TempDir(), validRuleset)
	w, err := NewWatcher(path, 0, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Watch(ctx, func(context.Context) error { return nil }) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Watch(ctx, func(context.Context) error { return nil }); err == nil {
		t.Error("second Watch() succeeded, want error")
	}
	cancel()
}
