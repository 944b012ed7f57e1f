package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

// headKind classifies the text in front of a top-level '(' in a LHS.
type headKind int

const (
	headPattern    headKind = iota // [binding :] Type(...)
	headGroup                      // ( A() or B() )
	headQualifier                  // not(...), exists(...), forall(...)
	headEval                       // eval(...)
	headAccumulate                 // accumulate(Pattern, ...)
	headCollect                    // collect(Pattern)
	headSource                     // from <expr>(...), over window:time(...)
	headInvalid
)

type patternHead struct {
	kind      headKind
	binding   string
	typeName  string
	qualifier ast.Qualifier
	start     int // Offset of the binding or type within the prefix
}

var barePattern = regexp.MustCompile(`^(?:(?:and|or|not|exists)\s+)?\$?[A-Za-z_][\w$]*\s*:\s*[A-Za-z_][\w$.]*$`)

type conditionParser struct {
	pc        *parseContext
	construct string
}

// parseConditions parses the patterns of a when block. text is the block
// body and base its offset in the file. A pattern whose type clause cannot
// be resolved aborts the whole block and is returned as a
// ConditionParsingError for the caller to record; constraint level problems
// are recorded directly and never abort.
func parseConditions(pc *parseContext, text string, base int, construct string) ([]*ast.Condition, *drlErrors.Error) {
	cp := &conditionParser{pc: pc, construct: construct}
	conds := make([]*ast.Condition, 0)
	if err := cp.parse(text, base, ast.QualifierNone, &conds); err != nil {
		return nil, err
	}
	return conds, nil
}

func (cp *conditionParser) parse(text string, base int, qual ast.Qualifier, out *[]*ast.Condition) *drlErrors.Error {
	cursor := 0
	for cursor < len(text) {
		rel := scanner.IndexByteTop(text[cursor:], '(')
		if rel < 0 {
			return cp.checkTrailing(text[cursor:], base+cursor)
		}
		open := cursor + rel
		closeAt := scanner.MatchClose(text, open)
		if closeAt < 0 {
			return cp.pc.newError(drlErrors.ConditionParsingError, drlErrors.ConstructKept, cp.construct,
				base+open, text[cursor:], "unbalanced parentheses in pattern")
		}

		prefix := text[cursor:open]
		inner := text[open+1 : closeAt]
		innerBase := base + open + 1
		head := analysePrefix(prefix)

		var err *drlErrors.Error
		switch head.kind {
		case headPattern:
			q := qual
			if head.qualifier != ast.QualifierNone {
				q = head.qualifier
			}
			*out = append(*out, &ast.Condition{
				Variable:    cp.pc.policy.binding(head.binding),
				Type:        head.typeName,
				Qualifier:   q,
				Constraints: cp.constraints(inner, innerBase),
				Location:    cp.pc.location(base + cursor + head.start),
			})
		case headGroup:
			err = cp.parse(inner, innerBase, qual, out)
		case headQualifier:
			err = cp.parse(inner, innerBase, head.qualifier, out)
		case headAccumulate:
			if segs := scanner.Split(inner, ','); len(segs) > 0 {
				err = cp.parse(segs[0].Text, innerBase+segs[0].Start, qual, out)
			}
		case headCollect:
			err = cp.parse(inner, innerBase, qual, out)
		case headEval, headSource:
			cp.pc.logger.Debug("skipping non-pattern expression",
				"construct", cp.construct,
				"location", cp.pc.location(base+open).String())
		default:
			err = cp.pc.newError(drlErrors.ConditionParsingError, drlErrors.ConstructKept, cp.construct,
				base+cursor, strings.TrimSpace(prefix)+"(...)", "cannot resolve pattern type in %q", strings.TrimSpace(prefix))
		}
		if err != nil {
			return err
		}
		cursor = closeAt + 1
	}
	return nil
}

// checkTrailing rejects a pattern that has no constraint list at all.
func (cp *conditionParser) checkTrailing(text string, offset int) *drlErrors.Error {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && barePattern.MatchString(trimmed) {
		return cp.pc.newError(drlErrors.ConditionParsingError, drlErrors.ConstructKept, cp.construct,
			offset+strings.Index(text, trimmed), trimmed, "pattern %q has no constraint list", trimmed)
	}
	return nil
}

func analysePrefix(prefix string) patternHead {
	t := strings.TrimRight(prefix, " \t\r\n")

	j := len(t)
	for j > 0 && (scanner.IsIdentByte(t[j-1]) || t[j-1] == '.') {
		j--
	}
	tok := t[j:]
	rest := strings.TrimRight(t[:j], " \t\r\n")

	if tok == "" {
		if strings.HasSuffix(rest, ":") {
			return patternHead{kind: headInvalid}
		}
		return patternHead{kind: headGroup}
	}
	if tok[0] == '.' {
		return patternHead{kind: headSource}
	}

	switch tok {
	case "not", "exists", "forall":
		if strings.HasSuffix(rest, ":") {
			return patternHead{kind: headInvalid}
		}
		return patternHead{kind: headQualifier, qualifier: ast.Qualifier(tok)}
	case "eval":
		return patternHead{kind: headEval}
	case "accumulate", "acc":
		return patternHead{kind: headAccumulate}
	case "collect":
		return patternHead{kind: headCollect}
	case "and", "or":
		return patternHead{kind: headGroup}
	case "from", "new":
		return patternHead{kind: headSource}
	}

	head := patternHead{kind: headPattern, typeName: tok, start: j}
	if strings.HasSuffix(rest, ":") {
		r := strings.TrimRight(rest[:len(rest)-1], " \t\r\n")
		k := len(r)
		for k > 0 && scanner.IsIdentByte(r[k-1]) {
			k--
		}
		head.binding = r[k:]
		if head.binding == "" {
			return patternHead{kind: headInvalid}
		}
		head.start = k
		rest = strings.TrimRight(r[:k], " \t\r\n")
	}

	switch lastWord(rest) {
	case "not", "exists", "forall":
		head.qualifier = ast.Qualifier(lastWord(rest))
	case "from", "over", "new":
		return patternHead{kind: headSource}
	}

	// `$c.getOrders()` outside a from clause lands here too.
	if !validTypeName(tok) {
		return patternHead{kind: headInvalid}
	}
	return head
}

func lastWord(s string) string {
	k := len(s)
	for k > 0 && (scanner.IsIdentByte(s[k-1]) || s[k-1] == '-') {
		k--
	}
	return s[k:]
}

func validTypeName(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	return !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}
