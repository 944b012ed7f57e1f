package parser

import (
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

// parseFunction assembles a Function from a terminated function section.
// The body is copied verbatim from the source, comments included.
func parseFunction(pc *parseContext, sec Section) *ast.Function {
	header := strings.TrimSpace(strings.TrimPrefix(sec.Header, "function"))

	open := scanner.IndexByteTop(header, '(', scanner.WithAngles())
	if open < 0 {
		pc.record(drlErrors.MalformedFunctionError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"function has no parameter list")
		return nil
	}
	closeAt := scanner.MatchClose(header, open)
	if closeAt < 0 {
		pc.record(drlErrors.MalformedFunctionError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"function parameter list is not closed")
		return nil
	}

	sig := strings.TrimSpace(header[:open])
	k := len(sig)
	for k > 0 && scanner.IsIdentByte(sig[k-1]) {
		k--
	}
	name := sig[k:]
	returnType := strings.TrimSpace(sig[:k])
	if name == "" {
		pc.record(drlErrors.MalformedFunctionError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"function has no name")
		return nil
	}
	if returnType == "" {
		pc.record(drlErrors.FunctionParsingError, drlErrors.ConstructSkipped, name, sec.Start, sec.Header,
			"function %q has no return type", name)
		return nil
	}

	params, bad := parseParameters(header[open+1 : closeAt])
	for _, seg := range bad {
		pc.record(drlErrors.FunctionParsingError, drlErrors.ConstructKept, name, sec.Start, seg.Text,
			"function parameter %q must be 'Type name'", seg.Text)
	}

	body := pc.raw[sec.BodyStart : sec.BodyStart+len(sec.Body)]
	return &ast.Function{
		Name:       name,
		ReturnType: returnType,
		Parameters: params,
		Body:       strings.TrimSpace(body),
		Location:   pc.location(sec.Start),
	}
}
