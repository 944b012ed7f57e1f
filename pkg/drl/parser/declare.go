package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

var declareHeader = regexp.MustCompile(`^declare\s+(?:(trait|enum)\s+)?([\w$.]+)(?:\s+extends\s+([\w$.]+))?`)

// parseDeclaredType assembles a DeclaredType. Unlike the other constructs
// an unterminated declaration is still returned with the fields read so far.
func parseDeclaredType(pc *parseContext, sec Section) *ast.DeclaredType {
	m := declareHeader.FindStringSubmatch(sec.Header)
	if m == nil {
		pc.record(drlErrors.MalformedDeclaredTypeError, drlErrors.ConstructSkipped, "", sec.Start, sec.Header,
			"declaration has no type name")
		return nil
	}

	dt := &ast.DeclaredType{
		Name:        m[2],
		Extends:     m[3],
		Annotations: make([]string, 0),
		Fields:      make([]*ast.Field, 0),
		Location:    pc.location(sec.Start),
	}
	enum := m[1] == "enum"

	for _, line := range scanner.Split(sec.Body, '\n') {
		for _, seg := range scanner.SplitNonEmpty(line.Text, ';') {
			offset := sec.BodyStart + line.Start + seg.Start
			parseDeclarationItem(pc, dt, seg.Text, offset, enum)
		}
	}

	if !sec.Terminated {
		pc.record(drlErrors.MalformedDeclaredTypeError, drlErrors.ConstructKept, dt.Name, sec.Start, sec.Header,
			"declaration of %q is missing 'end'; keeping %d field(s)", dt.Name, len(dt.Fields))
	}
	return dt
}

func parseDeclarationItem(pc *parseContext, dt *ast.DeclaredType, item string, offset int, enum bool) {
	if item == "" {
		return
	}
	if item[0] == '@' {
		dt.Annotations = append(dt.Annotations, splitAnnotations(item)...)
		return
	}

	colon := scanner.IndexByteTop(item, ':')
	if colon < 0 {
		if enum {
			// Enum constants such as `MON("Monday"), TUE("Tuesday")`.
			return
		}
		pc.record(drlErrors.MalformedDeclaredTypeError, drlErrors.ConstructKept, dt.Name, offset, item,
			"field %q has no type", item)
		return
	}

	name := strings.TrimSpace(item[:colon])
	if !isPath(name) || strings.Contains(name, ".") {
		pc.record(drlErrors.MalformedDeclaredTypeError, drlErrors.ConstructKept, dt.Name, offset, item,
			"malformed field declaration %q", item)
		return
	}

	rest := strings.TrimSpace(item[colon+1:])
	typeEnd := scanner.IndexTop(rest, 0, func(i int) bool { return rest[i] == '=' || rest[i] == '@' }, scanner.WithAngles())
	if typeEnd < 0 {
		typeEnd = len(rest)
	}
	field := &ast.Field{
		Name:        name,
		Type:        strings.TrimSpace(rest[:typeEnd]),
		Annotations: make([]string, 0),
	}
	if field.Type == "" {
		pc.record(drlErrors.MalformedDeclaredTypeError, drlErrors.ConstructKept, dt.Name, offset, item,
			"field %q has no type", name)
		return
	}

	rest = rest[typeEnd:]
	if strings.HasPrefix(rest, "=") {
		at := scanner.IndexByteTop(rest, '@')
		if at < 0 {
			at = len(rest)
		}
		field.DefaultValue = strings.TrimSpace(rest[1:at])
		rest = rest[at:]
	}
	field.Annotations = append(field.Annotations, splitAnnotations(rest)...)

	dt.Fields = append(dt.Fields, field)
}

// splitAnnotations splits `@a(x) @b` into ["@a(x)", "@b"].
func splitAnnotations(s string) []string {
	var out []string
	for i, seg := range scanner.Split(s, '@') {
		text := strings.TrimSpace(seg.Text)
		if i == 0 || text == "" {
			continue
		}
		out = append(out, "@"+text)
	}
	return out
}
