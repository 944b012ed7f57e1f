package parser

import (
	"regexp"
	"strconv"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

var ruleHeader = regexp.MustCompile(`^rule\s+(` + quotedName + `|[\w$.\-]+)`)

// booleanAttributes may appear without a value, meaning true.
var booleanAttributes = map[string]bool{
	"no-loop":        true,
	"lock-on-active": true,
	"auto-focus":     true,
	"enabled":        true,
}

// parseRule assembles a Rule from a terminated rule section. A rule missing
// its when or then section is still returned, with one MalformedRuleError.
func parseRule(pc *parseContext, sec Section) *ast.Rule {
	m := ruleHeader.FindStringSubmatch(sec.Header)
	name := ""
	if m != nil {
		name = unquoteName(m[1])
	}
	if name == "" {
		pc.record(drlErrors.MalformedRuleError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"rule has no name")
		return nil
	}

	body, base := sec.Body, sec.BodyStart
	whenAt := clauseKeyword(body, "when", 0)
	thenFrom := 0
	if whenAt >= 0 {
		thenFrom = whenAt + len("when")
	}
	thenAt := clauseKeyword(body, "then", thenFrom)

	attrEnd := len(body)
	switch {
	case whenAt >= 0:
		attrEnd = whenAt
	case thenAt >= 0:
		attrEnd = thenAt
	}

	rule := &ast.Rule{
		Name:       name,
		Attributes: make(map[string]string),
		Conditions: make([]*ast.Condition, 0),
		Actions:    make([]*ast.Action, 0),
		Location:   pc.location(sec.Start),
	}
	parseRuleAttributes(pc, rule, body[:attrEnd], base)

	switch {
	case whenAt < 0 && thenAt < 0:
		pc.record(drlErrors.MalformedRuleError, drlErrors.ConstructKept, name, sec.Start, sec.Header,
			"rule has neither a 'when' nor a 'then' section")
	case whenAt < 0:
		pc.record(drlErrors.MalformedRuleError, drlErrors.ConstructKept, name, sec.Start, sec.Header,
			"rule has no 'when' section")
	case thenAt < 0:
		pc.record(drlErrors.MalformedRuleError, drlErrors.ConstructKept, name, sec.Start, sec.Header,
			"rule has no 'then' section")
	}

	if whenAt >= 0 {
		lhsStart := whenAt + len("when")
		lhsEnd := len(body)
		if thenAt >= 0 {
			lhsEnd = thenAt
		}
		conds, err := parseConditions(pc, body[lhsStart:lhsEnd], base+lhsStart, name)
		if err != nil {
			pc.recordError(err)
		} else {
			rule.Conditions = conds
		}
	}

	if thenAt >= 0 {
		rhsStart := thenAt + len("then")
		rule.Actions = parseActions(pc, body[rhsStart:], base+rhsStart, name)
	}

	return rule
}

// clauseKeyword finds a top-level `when`/`then` keyword at or after from.
func clauseKeyword(body, kw string, from int) int {
	for {
		i := scanner.IndexWordTop(body, kw, from)
		if i <= 0 || body[i-1] != '.' {
			return i
		}
		from = i + len(kw)
	}
}

// parseRuleAttributes reads the header region between the rule name and
// `when`: extends, salience, @annotations and `key value` pairs.
func parseRuleAttributes(pc *parseContext, rule *ast.Rule, text string, base int) {
	i := 0
	for {
		for i < len(text) && (isBlank(text[i]) || text[i] == '\n' || text[i] == ',') {
			i++
		}
		if i >= len(text) {
			return
		}

		if text[i] == '@' {
			i = parseRuleAnnotation(pc, rule, text, i, base)
			continue
		}

		j := i
		for j < len(text) && (scanner.IsIdentByte(text[j]) || text[j] == '-') {
			j++
		}
		key := text[i:j]
		if key == "" {
			end := j + 1
			for end < len(text) && !isBlank(text[end]) && text[end] != '\n' {
				end++
			}
			pc.record(drlErrors.RuleParsingError, drlErrors.ConstructKept, rule.Name, base+i, text[i:end],
				"unexpected text %q in rule header", strings.TrimSpace(text[i:end]))
			i = end
			continue
		}

		k := j
		for k < len(text) && isBlank(text[k]) {
			k++
		}
		value, quoted, next, ok := readAttributeValue(text, k)
		if booleanAttributes[key] && ok && !quoted && value != "true" && value != "false" {
			ok, next = false, j
		}
		i = next

		switch key {
		case "extends":
			if !ok {
				pc.record(drlErrors.RuleParsingError, drlErrors.ConstructKept, rule.Name, base+j, key,
					"'extends' has no parent rule name")
				continue
			}
			rule.Extends = value
		case "salience":
			if !ok {
				pc.record(drlErrors.RuleParsingError, drlErrors.ConstructKept, rule.Name, base+j, key,
					"'salience' has no value")
				continue
			}
			if n, err := strconv.Atoi(value); err == nil {
				rule.Salience = &n
			} else {
				// Dynamic salience expression; keep it as an attribute.
				rule.Attributes["salience"] = value
			}
		default:
			if !ok {
				if !booleanAttributes[key] {
					pc.record(drlErrors.RuleParsingError, drlErrors.ConstructKept, rule.Name, base+i, key,
						"attribute %q has no value", key)
					continue
				}
				value = "true"
			}
			rule.Attributes[key] = value
		}
	}
}

func parseRuleAnnotation(pc *parseContext, rule *ast.Rule, text string, i, base int) int {
	j := i + 1
	for j < len(text) && (scanner.IsIdentByte(text[j]) || text[j] == '.') {
		j++
	}
	name := text[i+1 : j]
	if name == "" {
		pc.record(drlErrors.RuleParsingError, drlErrors.ConstructKept, rule.Name, base+i, text[i:min(j+1, len(text))],
			"annotation has no name")
		return j + 1
	}

	value := ""
	k := j
	for k < len(text) && isBlank(text[k]) {
		k++
	}
	if k < len(text) && text[k] == '(' {
		if end := scanner.MatchClose(text, k); end > 0 {
			value = strings.TrimSpace(text[k+1 : end])
			j = end + 1
		}
	}
	rule.Attributes["@"+name] = value
	return j
}

// readAttributeValue reads a value on the same line starting at k: a quoted
// string (returned unquoted), a parenthesised expression (returned with its
// parentheses) or a bare token.
func readAttributeValue(text string, k int) (value string, quoted bool, next int, ok bool) {
	if k >= len(text) || text[k] == '\n' || text[k] == '\r' || text[k] == ',' {
		return "", false, k, false
	}

	switch text[k] {
	case '"', '\'':
		sc := scanner.New()
		for i := k; i < len(text); i++ {
			sc.Step(text[i], i)
			if !sc.InQuote() {
				return text[k+1 : i], true, i + 1, true
			}
		}
		return text[k+1:], true, len(text), true
	case '(':
		if end := scanner.MatchClose(text, k); end > 0 {
			return text[k : end+1], false, end + 1, true
		}
		return text[k:], false, len(text), true
	}

	end := k
	for end < len(text) && !isBlank(text[end]) && text[end] != '\n' && text[end] != '\r' && text[end] != ',' {
		end++
	}
	return text[k:end], false, end, true
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// unquoteName strips the quotes of a quoted construct name.
func unquoteName(s string) string {
	if name, ok := scanner.Unquote(s); ok {
		return strings.TrimSpace(name)
	}
	return s
}
