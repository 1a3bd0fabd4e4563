// Package handlers implements the rule engine's JSON HTTP API.
//
// Routes registered by RulesHandler.Register:
//
//	POST   /rules                 create a rule from {rule_name, rule_string}
//	GET    /rules                 list rules
//	GET    /rules/{id}            fetch a rule including its rule_ast
//	DELETE /rules/{id}            delete a rule
//	POST   /rules/{id}/evaluate   evaluate {data: {...}} against a rule
//	POST   /rules/combine         combine {rule_name, ids} into a new rule
//	POST   /parse                 parse {rule_string} without storing it
//
// Failures are returned as {"error": {"kind", "message", ...}} with a status
// chosen by StatusFor.
package handlers
