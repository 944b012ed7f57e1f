package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const indent = "    "

// String renders the file as DRL source.
func (f *RuleFile) String() string {
	var sb strings.Builder
	if f.Package != "" {
		fmt.Fprintf(&sb, "package %s;\n\n", f.Package)
	}
	for _, imp := range f.Imports {
		sb.WriteString(imp.String())
		sb.WriteString("\n")
	}
	if len(f.Imports) > 0 {
		sb.WriteString("\n")
	}
	for _, g := range f.Globals {
		sb.WriteString(g.String())
		sb.WriteString("\n")
	}
	if len(f.Globals) > 0 {
		sb.WriteString("\n")
	}

	blocks := make([]string, 0, f.ConstructCount())
	for _, d := range f.DeclaredTypes {
		blocks = append(blocks, d.String())
	}
	for _, fn := range f.Functions {
		blocks = append(blocks, fn.String())
	}
	for _, q := range f.Queries {
		blocks = append(blocks, q.String())
	}
	for _, r := range f.Rules {
		blocks = append(blocks, r.String())
	}
	sb.WriteString(strings.Join(blocks, "\n\n"))
	if len(blocks) > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (i *Import) String() string {
	if i.Function {
		return fmt.Sprintf("import function %s;", i.QualifiedName())
	}
	return fmt.Sprintf("import %s;", i.QualifiedName())
}

func (g *Global) String() string {
	return fmt.Sprintf("global %s %s;", g.Type, g.Name)
}

// String renders the rule as a DRL block. Attributes are emitted in sorted
// order so the output is stable.
func (r *Rule) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rule %s", strconv.Quote(r.Name))
	if r.Extends != "" {
		fmt.Fprintf(&sb, " extends %s", strconv.Quote(r.Extends))
	}
	sb.WriteString("\n")
	if r.Salience != nil {
		fmt.Fprintf(&sb, "%ssalience %d\n", indent, *r.Salience)
	}
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s%s %s\n", indent, k, r.Attributes[k])
	}
	sb.WriteString("when\n")
	for _, c := range r.Conditions {
		fmt.Fprintf(&sb, "%s%s\n", indent, c)
	}
	sb.WriteString("then\n")
	for _, a := range r.Actions {
		fmt.Fprintf(&sb, "%s%s;\n", indent, a)
	}
	sb.WriteString("end")
	return sb.String()
}

func (c *Condition) String() string {
	parts := make([]string, 0, len(c.Constraints))
	for _, con := range c.Constraints {
		parts = append(parts, con.String())
	}
	pattern := fmt.Sprintf("%s(%s)", c.Type, strings.Join(parts, ", "))
	if c.Variable != "" {
		pattern = c.Variable + " : " + pattern
	}
	if c.Qualifier != QualifierNone {
		pattern = string(c.Qualifier) + " " + pattern
	}
	return pattern
}

func (c *Constraint) String() string {
	if c.Operator == "" {
		return c.Field
	}
	value := c.Value
	if c.Quoted {
		value = strconv.Quote(value)
	}
	return fmt.Sprintf("%s %s %s", c.Field, c.Operator, value)
}

func (a *Action) String() string {
	switch a.Type {
	case ActionMethodCall:
		callee := a.Target
		if a.Method != "" {
			callee += "." + a.Method
		}
		return fmt.Sprintf("%s(%s)", callee, strings.Join(a.Arguments, ", "))
	case ActionAssignment:
		return fmt.Sprintf("%s = %s", a.Target, strings.Join(a.Arguments, ", "))
	default:
		return strings.Join(a.Arguments, " ")
	}
}

func (q *Query) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "query %s", strconv.Quote(q.Name))
	if len(q.Parameters) > 0 {
		fmt.Fprintf(&sb, "(%s)", joinParameters(q.Parameters))
	}
	sb.WriteString("\n")
	for _, c := range q.Conditions {
		fmt.Fprintf(&sb, "%s%s\n", indent, c)
	}
	sb.WriteString("end")
	return sb.String()
}

func (f *Function) String() string {
	body := strings.TrimSpace(f.Body)
	if body == "" {
		return fmt.Sprintf("function %s {\n}", f.Signature())
	}
	return fmt.Sprintf("function %s {\n%s%s\n}", f.Signature(), indent, body)
}

func (p *Parameter) String() string {
	return p.Type + " " + p.Name
}

func joinParameters(params []*Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

func (d *DeclaredType) String() string {
	var sb strings.Builder
	sb.WriteString("declare " + d.Name)
	if d.Extends != "" {
		sb.WriteString(" extends " + d.Extends)
	}
	sb.WriteString("\n")
	for _, a := range d.Annotations {
		fmt.Fprintf(&sb, "%s%s\n", indent, a)
	}
	for _, f := range d.Fields {
		fmt.Fprintf(&sb, "%s%s\n", indent, f)
	}
	sb.WriteString("end")
	return sb.String()
}

func (f *Field) String() string {
	s := f.Name + " : " + f.Type
	if f.DefaultValue != "" {
		s += " = " + f.DefaultValue
	}
	if len(f.Annotations) > 0 {
		s += " " + strings.Join(f.Annotations, " ")
	}
	return s
}
