// Package parser turns DRL rule source into the ast entity model.
//
// Parsing never stops at the first problem. The source is cut into
// top-level sections (rule, query, function, declare) by a delimiter-aware
// splitter, each section is handed to its sub-parser, and anything that
// cannot be understood is recorded as a classified error while the rest of
// the file is kept:
//
//	p := parser.NewParser().WithLogger(logger)
//	file, err := p.ParseFile("rules/discount.drl")
//	if err != nil {
//		// the file could not be read
//	}
//	for kind, n := range p.ErrorSummary() {
//		...
//	}
//
// ParseDirectory parses a tree of rule files with a bounded worker pool and
// returns the results in path order.
package parser
