package ast

// Visitor provides an interface for traversing a parsed rule file.
// Implement this interface to perform operations on nodes
// (statistics, graph export, lint checks, etc.).
type Visitor interface {
	VisitFile(*RuleFile) error
	VisitRule(*Rule) error
	VisitCondition(*Condition) error
	VisitAction(*Action) error
	VisitQuery(*Query) error
	VisitFunction(*Function) error
	VisitDeclaredType(*DeclaredType) error
}

// Walk traverses the file in source order and calls the visitor for each node.
// It returns the first error encountered, or nil if traversal completes.
func Walk(file *RuleFile, visitor Visitor) error {
	if err := visitor.VisitFile(file); err != nil {
		return err
	}

	for _, decl := range file.DeclaredTypes {
		if err := visitor.VisitDeclaredType(decl); err != nil {
			return err
		}
	}

	for _, fn := range file.Functions {
		if err := visitor.VisitFunction(fn); err != nil {
			return err
		}
	}

	for _, q := range file.Queries {
		if err := visitor.VisitQuery(q); err != nil {
			return err
		}
		for _, c := range q.Conditions {
			if err := visitor.VisitCondition(c); err != nil {
				return err
			}
		}
	}

	for _, r := range file.Rules {
		if err := visitor.VisitRule(r); err != nil {
			return err
		}
		for _, c := range r.Conditions {
			if err := visitor.VisitCondition(c); err != nil {
				return err
			}
		}
		for _, a := range r.Actions {
			if err := visitor.VisitAction(a); err != nil {
				return err
			}
		}
	}

	return nil
}

// BaseVisitor implements Visitor with no-op methods.
// Embed it to override only the methods you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitFile(*RuleFile) error             { return nil }
func (BaseVisitor) VisitRule(*Rule) error                 { return nil }
func (BaseVisitor) VisitCondition(*Condition) error       { return nil }
func (BaseVisitor) VisitAction(*Action) error             { return nil }
func (BaseVisitor) VisitQuery(*Query) error               { return nil }
func (BaseVisitor) VisitFunction(*Function) error         { return nil }
func (BaseVisitor) VisitDeclaredType(*DeclaredType) error { return nil }

// Stats counts nodes in one or more files.
type Stats struct {
	Files         int `json:"files"`
	Rules         int `json:"rules"`
	Queries       int `json:"queries"`
	Functions     int `json:"functions"`
	DeclaredTypes int `json:"declared_types"`
	Conditions    int `json:"conditions"`
	Constraints   int `json:"constraints"`
	Actions       int `json:"actions"`
}

type statsVisitor struct {
	BaseVisitor
	stats *Stats
}

func (v statsVisitor) VisitFile(*RuleFile) error { v.stats.Files++; return nil }
func (v statsVisitor) VisitRule(*Rule) error     { v.stats.Rules++; return nil }
func (v statsVisitor) VisitQuery(*Query) error   { v.stats.Queries++; return nil }
func (v statsVisitor) VisitAction(*Action) error { v.stats.Actions++; return nil }

func (v statsVisitor) VisitFunction(*Function) error {
	v.stats.Functions++
	return nil
}

func (v statsVisitor) VisitDeclaredType(*DeclaredType) error {
	v.stats.DeclaredTypes++
	return nil
}

func (v statsVisitor) VisitCondition(c *Condition) error {
	v.stats.Conditions++
	v.stats.Constraints += len(c.Constraints)
	return nil
}

// CollectStats walks every file and returns aggregated node counts.
func CollectStats(files ...*RuleFile) Stats {
	var s Stats
	v := statsVisitor{stats: &s}
	for _, f := range files {
		// statsVisitor never returns an error.
		_ = Walk(f, v)
	}
	return s
}
