package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

// operators recognised in constraint fragments. At a given position the
// first match in this order wins, so longer forms precede their prefixes.
var operators = []string{
	"not matches", "not contains", "not memberOf", "not soundslike", "not in",
	"matches", "contains", "memberOf", "soundslike", "excludes", "in",
	"==", "!=", ">=", "<=", ">", "<",
}

var inlineBinding = regexp.MustCompile(`^\$?[A-Za-z_][\w$]*\s*:`)

// constraints splits a pattern's constraint list on top-level commas and
// parses each fragment.
func (cp *conditionParser) constraints(inner string, base int) []*ast.Constraint {
	out := make([]*ast.Constraint, 0)
	for _, seg := range scanner.SplitNonEmpty(inner, ',') {
		if seg.Malformed() {
			cp.pc.record(drlErrors.MalformedConditionError, drlErrors.ConstructKept, cp.construct,
				base+seg.Start, seg.Text, "constraint has unbalanced delimiters: %s", problemText(seg.Problems))
		}
		out = append(out, cp.conjunction(seg.Text, base+seg.Start)...)
	}
	return out
}

// conjunction parses one comma fragment. Tests joined by a top-level '&&'
// become separate constraints, and a conjunct that starts with an operator
// reuses the previous field: `age > 18 && < 65` gives two constraints on age.
func (cp *conditionParser) conjunction(frag string, offset int) []*ast.Constraint {
	bound := false
	if m := inlineBinding.FindString(frag); m != "" && !strings.HasPrefix(frag[len(m):], ":") {
		frag, offset = trimFrom(frag, len(m), offset)
		bound = true
	}
	for len(frag) > 1 && frag[0] == '(' && scanner.MatchClose(frag, 0) == len(frag)-1 {
		frag, offset = trimFrom(frag[:len(frag)-1], 1, offset)
	}

	if scanner.IndexTop(frag, 0, func(i int) bool { return strings.HasPrefix(frag[i:], "||") }) >= 0 {
		cp.pc.record(drlErrors.MalformedConditionError, drlErrors.ConstructKept, cp.construct,
			offset, frag, "disjunction %q kept as field only", frag)
		return []*ast.Constraint{{Field: frag}}
	}

	parts := scanner.SplitString(frag, "&&")
	if len(parts) == 1 {
		if c := cp.constraint(frag, offset, bound); c != nil {
			return []*ast.Constraint{c}
		}
		return nil
	}

	var out []*ast.Constraint
	field := ""
	for _, part := range parts {
		part = part.Trimmed()
		if part.Text == "" {
			cp.pc.record(drlErrors.MalformedConditionError, drlErrors.ConstructKept, cp.construct,
				offset+part.Start, frag, "empty test in %q", frag)
			continue
		}
		text, at := part.Text, offset+part.Start
		if pos, _ := findOperator(text); pos == 0 && field != "" {
			text = field + " " + text
		}
		for _, c := range cp.conjunction(text, at) {
			if c.Operator != "" {
				field = c.Field
			}
			out = append(out, c)
		}
	}
	return out
}

// constraint parses a single test. It returns nil for a pure field binding
// such as `$n : name`, which tests nothing.
func (cp *conditionParser) constraint(frag string, offset int, bound bool) *ast.Constraint {
	if pos, op := findOperator(frag); pos > 0 {
		field := strings.TrimSpace(frag[:pos])
		value := strings.TrimSpace(frag[pos+len(op):])
		if field != "" && value != "" {
			c := &ast.Constraint{Field: field, Operator: op, Value: value}
			c.Value, c.Quoted = stripLiteral(value)
			return c
		}
	}

	if call, negated, ok := booleanCall(frag); ok {
		return booleanTest(call, negated)
	}

	if bound && isPath(frag) {
		return nil
	}

	// A bare boolean property: `active`, `!closed`.
	name, negated := strings.CutPrefix(frag, "!")
	if name = strings.TrimSpace(name); isPath(name) && isIdentStart(name[0]) {
		return booleanTest(name, negated)
	}

	cp.pc.record(drlErrors.MalformedConditionError, drlErrors.ConstructKept, cp.construct,
		offset, frag, "unrecognised constraint %q kept as field only", frag)
	return &ast.Constraint{Field: frag}
}

func booleanTest(field string, negated bool) *ast.Constraint {
	value := "true"
	if negated {
		value = "false"
	}
	return &ast.Constraint{Field: field, Operator: "==", Value: value}
}

// trimFrom drops s[:n] and surrounding blanks, moving offset along.
func trimFrom(s string, n, offset int) (string, int) {
	rest := s[n:]
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	return strings.TrimRight(trimmed, " \t\r\n"), offset + n + len(rest) - len(trimmed)
}

func isIdentStart(c byte) bool {
	return scanner.IsIdentByte(c) && (c < '0' || c > '9')
}

// findOperator returns the position and spelling of the first top-level
// operator in frag, or -1.
func findOperator(frag string) (int, string) {
	found := ""
	pos := scanner.IndexTop(frag, 0, func(i int) bool {
		for _, op := range operators {
			if matchOperator(frag, i, op) {
				found = op
				return true
			}
		}
		return false
	})
	return pos, found
}

func matchOperator(frag string, i int, op string) bool {
	if !strings.HasPrefix(frag[i:], op) {
		return false
	}
	if scanner.IsIdentByte(op[0]) {
		return scanner.IsWordAt(frag, i, op)
	}
	// '=' and '<'/'>' must not be the tail of a longer symbol (`<=`, `==`, `->`).
	if i > 0 && strings.IndexByte("=!<>-", frag[i-1]) >= 0 {
		return false
	}
	return true
}

// stripLiteral removes the quotes of a value that is exactly one string
// literal.
func stripLiteral(v string) (string, bool) {
	if len(v) < 2 || (v[0] != '"' && v[0] != '\'') {
		return v, false
	}
	sc := scanner.New()
	for i := 0; i < len(v); i++ {
		sc.Step(v[i], i)
		if !sc.InQuote() {
			if i == len(v)-1 {
				return v[1:i], true
			}
			return v, false
		}
	}
	return v, false
}

// booleanCall recognises `[!]path.method(args)`.
func booleanCall(frag string) (call string, negated, ok bool) {
	f := frag
	if strings.HasPrefix(f, "!") {
		negated = true
		f = strings.TrimSpace(f[1:])
	}
	if !strings.HasSuffix(f, ")") {
		return "", false, false
	}

	open := -1
	sc := scanner.New()
	for i := 0; i < len(f); i++ {
		if sc.Top() && f[i] == '(' {
			open = i
		}
		sc.Step(f[i], i)
	}
	if open <= 0 || scanner.MatchClose(f, open) != len(f)-1 {
		return "", false, false
	}
	callee := strings.TrimSpace(f[:open])
	if callee == "" || !scanner.IsIdentByte(callee[len(callee)-1]) {
		return "", false, false
	}
	if scanner.IndexTop(callee, 0, func(i int) bool { return callee[i] == ' ' || callee[i] == '\t' }) >= 0 {
		return "", false, false
	}
	return f, negated, true
}

// isPath reports whether s is a dotted identifier path.
func isPath(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !scanner.IsIdentByte(s[i]) && s[i] != '.' {
			return false
		}
	}
	return true
}
