package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/store"
)

// SyncResult lists what Sync did, by rule name.
type SyncResult struct {
	Created []string
	Skipped []string
}

// Sync stores every rule in the set whose name is not already in st.
// Rules that exist by name are left untouched, even if their text differs.
func (s *Set) Sync(ctx context.Context, st store.Store, logger *slog.Logger) (*SyncResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ruleset")

	result := &SyncResult{}
	for _, r := range s.Rules {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		existing, err := st.GetByName(ctx, r.Name)
		switch {
		case err == nil:
			if existing.RuleString != r.Parsed.RuleString {
				logger.Warn("stored rule differs from ruleset, keeping stored version",
					"rule_name", r.Name,
					"rule_id", existing.ID,
				)
			}
			result.Skipped = append(result.Skipped, r.Name)
			continue
		case !errors.Is(err, store.ErrRuleNotFound):
			return result, fmt.Errorf("failed to look up rule %q: %w", r.Name, err)
		}

		rule := &store.Rule{Name: r.Name, RuleString: r.Parsed.RuleString, AST: r.Parsed.AST}
		if _, err := st.Create(ctx, rule); err != nil {
			return result, fmt.Errorf("failed to store rule %q: %w", r.Name, err)
		}
		logger.Info("rule loaded from ruleset", "rule_name", r.Name, "rule_id", rule.ID)
		result.Created = append(result.Created, r.Name)
	}
	return result, nil
}
