// Package executor evaluates parsed GraphQL operations against a schema.
//
// Execution is a synchronous, depth-first fold over the operation's selection
// set. Fragment spreads and inline fragments splice their fields in at the
// point of the spread, with the first occurrence of a response key fixing its
// position and value. Field failures never abort the request: each failing
// field yields null plus an entry in Response.Errors whose path lists response
// keys innermost first. Only parse failures, a missing root type, an unknown
// operation name and undefined fragments abort the whole request.
package executor
