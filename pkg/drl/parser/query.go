package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

var queryHeader = regexp.MustCompile(`(?s)^query\s+(` + quotedName + `|[\w$.\-]+)\s*(?:\((.*)\))?\s*$`)

// parseQuery assembles a Query from a terminated query section. A condition
// that cannot be parsed skips the whole query with a QueryParsingError.
func parseQuery(pc *parseContext, sec Section) *ast.Query {
	m := queryHeader.FindStringSubmatch(sec.Header)
	name := ""
	if m != nil {
		name = unquoteName(m[1])
	}
	if name == "" {
		pc.record(drlErrors.MalformedQueryError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"query has no name")
		return nil
	}

	params := make([]*ast.Parameter, 0)
	if m[2] != "" {
		paramBase := sec.Start + strings.Index(sec.Header, "(") + 1
		var bad []scanner.Segment
		params, bad = parseParameters(m[2])
		for _, seg := range bad {
			pc.record(drlErrors.QueryParsingError, drlErrors.ConstructKept, name, paramBase+seg.Start, seg.Text,
				"query parameter %q must be 'Type name'", seg.Text)
		}
	}

	conds, err := parseConditions(pc, sec.Body, sec.BodyStart, name)
	if err != nil {
		err.Kind = drlErrors.QueryParsingError
		err.Disposition = drlErrors.ConstructSkipped
		pc.recordError(err)
		return nil
	}

	return &ast.Query{
		Name:       name,
		Parameters: params,
		Conditions: conds,
		Location:   pc.location(sec.Start),
	}
}

// parseParameters parses a `Type name, Type name` list. Entries that are not
// a type followed by a name are returned separately.
func parseParameters(list string) ([]*ast.Parameter, []scanner.Segment) {
	params := make([]*ast.Parameter, 0)
	var bad []scanner.Segment
	for _, seg := range scanner.SplitNonEmpty(list, ',', scanner.WithAngles()) {
		text := strings.TrimSpace(strings.TrimPrefix(seg.Text, "final "))

		arrays := ""
		for strings.HasSuffix(text, "[]") {
			arrays += "[]"
			text = strings.TrimSpace(strings.TrimSuffix(text, "[]"))
		}

		k := len(text)
		for k > 0 && scanner.IsIdentByte(text[k-1]) {
			k--
		}
		name := text[k:]
		typ := strings.TrimSpace(text[:k]) + arrays
		if name == "" || strings.TrimSpace(text[:k]) == "" {
			bad = append(bad, seg)
			continue
		}
		params = append(params, &ast.Parameter{Type: typ, Name: name})
	}
	return params, bad
}
