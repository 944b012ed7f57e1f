package parser

import (
	"regexp"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
	"drools-graph/drlx/pkg/drl/scanner"
)

var (
	packagePattern = regexp.MustCompile(`^package\s+([\w$.]+)\s*$`)
	importPattern  = regexp.MustCompile(`^import\s+(?:(function|static)\s+)?([\w$.]+(?:\.\*)?)\s*$`)
	globalPattern  = regexp.MustCompile(`^global\s+(.+?)\s+([A-Za-z_$][\w$]*)\s*$`)
)

// ignoredStatements are package-level statements that carry no entity.
var ignoredStatements = []string{
	"dialect", "unit", "attributes", "agenda-group", "ruleflow-group",
	"activation-group", "no-loop", "lock-on-active", "auto-focus",
	"salience", "enabled", "duration", "timer", "calendars", "date-effective",
	"date-expires", "entry-point", "window", "template",
}

// declarations accumulates package, import and global statements.
type declarations struct {
	pkg     string
	imports []*ast.Import
	globals []*ast.Global
}

// parseDeclarations reads the statements of one top-level text segment.
// Statements end at ';' or at the end of a line.
func parseDeclarations(pc *parseContext, seg scanner.Segment, decl *declarations) {
	lineStart := seg.Start
	for _, line := range strings.SplitAfter(seg.Text, "\n") {
		for _, stmt := range scanner.Split(line, ';') {
			stmt = stmt.Trimmed()
			if stmt.Text != "" {
				parseDeclaration(pc, stmt.Text, lineStart+stmt.Start, decl)
			}
		}
		lineStart += len(line)
	}
}

func parseDeclaration(pc *parseContext, stmt string, offset int, decl *declarations) {
	switch {
	case scanner.HasWordPrefix(stmt, "package"):
		m := packagePattern.FindStringSubmatch(stmt)
		if m == nil {
			pc.record(drlErrors.DeclarationParsingError, drlErrors.ConstructKept, "", offset, stmt,
				"malformed package declaration")
			return
		}
		if decl.pkg != "" && decl.pkg != m[1] {
			pc.record(drlErrors.DeclarationParsingError, drlErrors.ConstructKept, "", offset, stmt,
				"duplicate package declaration %q, keeping %q", m[1], decl.pkg)
			return
		}
		decl.pkg = m[1]

	case scanner.HasWordPrefix(stmt, "import"):
		m := importPattern.FindStringSubmatch(stmt)
		if m == nil {
			pc.record(drlErrors.DeclarationParsingError, drlErrors.ConstructKept, "", offset, stmt,
				"malformed import declaration")
			return
		}
		imp := &ast.Import{Function: m[1] != "", Location: pc.location(offset)}
		name := m[2]
		if pkg, ok := strings.CutSuffix(name, ".*"); ok {
			imp.Package, imp.ClassName = pkg, "*"
		} else if dot := strings.LastIndex(name, "."); dot >= 0 {
			imp.Package, imp.ClassName = name[:dot], name[dot+1:]
		} else {
			imp.ClassName = name
		}
		decl.imports = append(decl.imports, imp)

	case scanner.HasWordPrefix(stmt, "global"):
		m := globalPattern.FindStringSubmatch(stmt)
		if m == nil {
			pc.record(drlErrors.DeclarationParsingError, drlErrors.ConstructKept, "", offset, stmt,
				"malformed global declaration, expected 'global Type name'")
			return
		}
		decl.globals = append(decl.globals, &ast.Global{
			Type:     strings.TrimSpace(m[1]),
			Name:     m[2],
			Location: pc.location(offset),
		})

	case stmt[0] == '@':
		// Package level annotation.

	default:
		for _, kw := range ignoredStatements {
			if scanner.HasWordPrefix(stmt, kw) {
				return
			}
		}
		pc.record(drlErrors.DeclarationParsingError, drlErrors.ConstructKept, "", offset, stmt,
			"unrecognised top-level statement")
	}
}
