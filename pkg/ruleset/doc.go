// Package ruleset loads rule definitions from YAML files and keeps a store
// in step with them.
//
// A rule definition file lists named rules:
//
//	rules:
//	  - name: senior_sales
//	    rule: "age > 30 AND department = 'Sales'"
//	  - name: high_earner
//	    rule: "salary > 50000 OR experience > 5"
//
// Load parses every entry and reports all problems at once, each tagged
// with the entry index and name. Sync stores the rules whose names are not
// already present; existing rules are never modified. Watcher reloads the
// file when it changes on disk.
package ruleset
