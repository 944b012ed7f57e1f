package ast

// RuleFile is the root of a parsed DRL file.
// All slices preserve source order.
type RuleFile struct {
	Path          string          `json:"path"`
	Package       string          `json:"package"`
	Imports       []*Import       `json:"imports"`
	Globals       []*Global       `json:"globals"`
	Rules         []*Rule         `json:"rules"`
	Queries       []*Query        `json:"queries"`
	Functions     []*Function     `json:"functions"`
	DeclaredTypes []*DeclaredType `json:"declared_types"`
}

// NewRuleFile returns an empty RuleFile for path with non-nil collections,
// so that JSON output renders empty arrays instead of null.
func NewRuleFile(path string) *RuleFile {
	return &RuleFile{
		Path:          path,
		Imports:       []*Import{},
		Globals:       []*Global{},
		Rules:         []*Rule{},
		Queries:       []*Query{},
		Functions:     []*Function{},
		DeclaredTypes: []*DeclaredType{},
	}
}

// IsEmpty returns true if the file declares nothing at all.
func (f *RuleFile) IsEmpty() bool {
	return f.Package == "" && len(f.Imports) == 0 && len(f.Globals) == 0 &&
		f.ConstructCount() == 0
}

// ConstructCount returns the number of rules, queries, functions and declared
// types in the file.
func (f *RuleFile) ConstructCount() int {
	return len(f.Rules) + len(f.Queries) + len(f.Functions) + len(f.DeclaredTypes)
}

// FindRule returns the rule with the given name, or nil.
func (f *RuleFile) FindRule(name string) *Rule {
	for _, r := range f.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// FindQuery returns the query with the given name, or nil.
func (f *RuleFile) FindQuery(name string) *Query {
	for _, q := range f.Queries {
		if q.Name == name {
			return q
		}
	}
	return nil
}

// FindDeclaredType returns the declared type with the given name, or nil.
func (f *RuleFile) FindDeclaredType(name string) *DeclaredType {
	for _, d := range f.DeclaredTypes {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Import is an `import a.b.C;` declaration, split on the last dot.
type Import struct {
	Package   string   `json:"package"`
	ClassName string   `json:"class_name"`
	Function  bool     `json:"function,omitempty"` // import function / import static
	Location  Location `json:"location"`
}

// QualifiedName returns the fully qualified imported name.
func (i *Import) QualifiedName() string {
	if i.Package == "" {
		return i.ClassName
	}
	return i.Package + "." + i.ClassName
}

// Global is a `global Type name;` declaration.
type Global struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}
