// Ruleengine parses, stores, combines and evaluates boolean eligibility rules
// such as "(age > 30 AND department = 'Sales') OR salary > 50000".
//
// Usage:
//
//	# Start the HTTP API with default configuration
//	ruleengine serve
//
//	# Start with a configuration file
//	ruleengine serve --config /path/to/config.yaml
//
//	# Parse a rule and show its tree
//	ruleengine parse "age > 30 AND department = 'Sales'" --tree
//
//	# Evaluate a rule against a record
//	ruleengine eval "age > 30" --data '{"age": 35}'
//
//	# Manage stored rules
//	ruleengine rules create senior "age > 30"
//	ruleengine rules list
//
//	# Validate a rule definition file
//	ruleengine lint rules.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
