package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

// controlKeywords start statements that are kept as ActionOther.
var controlKeywords = []string{
	"if", "for", "while", "do", "switch", "try", "return", "throw", "break", "continue", "synchronized",
}

var (
	leadingToken = regexp.MustCompile(`^[\w$.]+`)
	localDecl    = regexp.MustCompile(`^(?:final\s+)?[\w$.]+(?:<[^=]*>)?(?:\[\])*\s+([A-Za-z_$][\w$]*)$`)
	blockCall    = regexp.MustCompile(`^(modify|with)\s*\(`)
)

// parseActions splits a then block into statements and classifies each one.
// A statement with unbalanced delimiters or an unterminated literal is
// dropped with an ActionParsingError; the remaining statements are kept.
func parseActions(pc *parseContext, text string, base int, construct string) []*ast.Action {
	actions := make([]*ast.Action, 0)
	for _, seg := range scanner.SplitStatements(text) {
		offset := base + seg.Start
		if seg.Malformed() {
			pc.record(drlErrors.ActionParsingError, drlErrors.ConstructKept, construct, offset, seg.Text,
				"malformed action statement: %s", problemText(seg.Problems))
			continue
		}

		action, err := classifyAction(seg.Text)
		if err != "" {
			pc.record(drlErrors.MalformedActionError, drlErrors.ConstructKept, construct, offset, seg.Text,
				"%s", err)
			continue
		}
		action.Target = pc.policy.target(action.Target)
		action.Location = pc.location(offset)
		actions = append(actions, action)
	}
	return actions
}

// classifyAction turns one statement into an Action. The second result is
// a reason when the statement looks like a call or assignment but has no
// usable target.
func classifyAction(stmt string) (*ast.Action, string) {
	for _, kw := range controlKeywords {
		if scanner.HasWordPrefix(stmt, kw) {
			return other(stmt), ""
		}
	}

	if m := blockCall.FindStringSubmatch(stmt); m != nil && strings.HasSuffix(stmt, "}") {
		open := strings.IndexByte(stmt, '(')
		closeAt := scanner.MatchClose(stmt, open)
		if closeAt > 0 {
			args := arguments(stmt[open+1 : closeAt])
			if block := strings.TrimSpace(stmt[closeAt+1:]); block != "" {
				args = append(args, strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(block, "{"), "}")))
			}
			return &ast.Action{Type: ast.ActionMethodCall, Target: m[1], Arguments: args}, ""
		}
	}

	if eq := assignmentIndex(stmt); eq >= 0 {
		left := strings.TrimSpace(stmt[:eq])
		if eq > 0 && strings.IndexByte("+-*/%&|^", stmt[eq-1]) >= 0 {
			left = strings.TrimSpace(stmt[:eq-1])
		}
		if m := localDecl.FindStringSubmatch(left); m != nil {
			left = m[1]
		}
		right := strings.TrimSpace(stmt[eq+1:])
		if left == "" {
			return nil, "assignment has no target"
		}
		return &ast.Action{Type: ast.ActionAssignment, Target: left, Arguments: []string{right}}, ""
	}

	if strings.HasSuffix(stmt, ")") {
		if open := finalCallParen(stmt); open > 0 {
			callee := strings.TrimSpace(stmt[:open])
			args := arguments(stmt[open+1 : len(stmt)-1])
			if strings.ContainsAny(callee, " \t\n") {
				return other(stmt), ""
			}
			if dot := lastTopLevelDot(callee); dot >= 0 {
				target, method := callee[:dot], callee[dot+1:]
				if target == "" {
					return nil, "method call has no target"
				}
				return &ast.Action{Type: ast.ActionMethodCall, Target: target, Method: method, Arguments: args}, ""
			}
			return &ast.Action{Type: ast.ActionMethodCall, Target: callee, Arguments: args}, ""
		}
	}

	return other(stmt), ""
}

func other(stmt string) *ast.Action {
	target := leadingToken.FindString(stmt)
	if target == "" {
		target = stmt
	}
	return &ast.Action{Type: ast.ActionOther, Target: target, Arguments: []string{stmt}}
}

// assignmentIndex returns the offset of a top-level '=' that is an
// assignment operator, or -1.
func assignmentIndex(stmt string) int {
	return scanner.IndexTop(stmt, 0, func(i int) bool {
		if stmt[i] != '=' {
			return false
		}
		if i+1 < len(stmt) && (stmt[i+1] == '=' || stmt[i+1] == '>') {
			return false
		}
		if i > 0 && strings.IndexByte("=!<>", stmt[i-1]) >= 0 {
			return false
		}
		return true
	})
}

// finalCallParen returns the offset of the '(' matching the statement's
// final ')', when that parenthesis opens at the top level.
func finalCallParen(stmt string) int {
	open := -1
	sc := scanner.New()
	for i := 0; i < len(stmt); i++ {
		if sc.Top() && stmt[i] == '(' {
			open = i
		}
		sc.Step(stmt[i], i)
	}
	if open < 0 || scanner.MatchClose(stmt, open) != len(stmt)-1 {
		return -1
	}
	callee := strings.TrimRight(stmt[:open], " \t")
	if callee == "" || !scanner.IsIdentByte(callee[len(callee)-1]) {
		return -1
	}
	return open
}

func lastTopLevelDot(s string) int {
	last := -1
	sc := scanner.New()
	for i := 0; i < len(s); i++ {
		if sc.Top() && s[i] == '.' {
			last = i
		}
		sc.Step(s[i], i)
	}
	return last
}

// arguments splits an argument list on top-level commas.
func arguments(list string) []string {
	args := make([]string, 0)
	for _, seg := range scanner.SplitNonEmpty(list, ',') {
		args = append(args, seg.Text)
	}
	return args
}
