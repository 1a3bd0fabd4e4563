// Package store persists rules.
//
// A stored rule pairs a display name and canonical rule text with its AST.
// Trees are kept in the JSON interchange shape and decoded again on every
// read, so callers may combine or hold returned trees without affecting
// what is stored.
//
// # Backends
//
//   - Memory: process-local storage for tests and single-shot CLI use
//   - SQLite: durable storage using either the pure-Go driver ("sqlite",
//     modernc.org/sqlite) or the cgo driver ("sqlite3", mattn/go-sqlite3)
//
// # Basic Usage
//
//	s, err := store.NewSQLiteStore(&store.SQLiteConfig{Path: "data/rules.db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	id, err := s.Create(ctx, &store.Rule{Name: "senior-sales", RuleString: res.RuleString, AST: res.AST})
//	rule, err := s.Get(ctx, id)
//	if errors.Is(err, store.ErrRuleNotFound) {
//	    // unknown id
//	}
//
// # Maintenance
//
// CheckpointScheduler truncates the SQLite write-ahead log on a cron
// schedule such as "0 */6 * * *".
package store
