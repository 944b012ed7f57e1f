// Package errors classifies and accumulates DRL parse failures.
//
// The parser is permissive: apart from I/O failures, nothing it encounters
// stops a file from being parsed. Instead every problem is recorded as an
// *Error with a Kind (what went wrong) and a Disposition (what the parser
// did about it), and collected in a Recorder that belongs to a single parse
// run.
//
// # Severity
//
//	FileAborted       FileParsingError; the file yields no RuleFile
//	ConstructSkipped  Malformed{Rule,Query,Function,DeclaredType}Error and
//	                  friends; one construct is dropped
//	ConstructKept     condition, constraint, action and field problems; the
//	                  surrounding construct keeps everything that parsed
//
// # Basic Usage
//
//	rec := errors.NewRecorder()
//	rec.Record(&errors.Error{
//	    Kind:        errors.MalformedQueryError,
//	    Disposition: errors.ConstructSkipped,
//	    Message:     "query block is missing 'end'",
//	    Location:    loc,
//	    Construct:   "FindAdults",
//	})
//
//	rec.Count(errors.MalformedQueryError) // 1
//	rec.Summary().Counts["MalformedQueryError"]
//
// Recorders are not safe for concurrent use; the directory orchestrator gives
// each worker its own recorder and merges them in input order.
package errors
