package ast

import "strings"

// Query is a named LHS without a consequence.
type Query struct {
	Name       string       `json:"name"`
	Parameters []*Parameter `json:"parameters"`
	Conditions []*Condition `json:"conditions"`
	Location   Location     `json:"location"`
}

// Function is a DRL helper function. Body is the raw text between the
// outermost braces and is not parsed further.
type Function struct {
	Name       string       `json:"name"`
	ReturnType string       `json:"return_type"`
	Parameters []*Parameter `json:"parameters"`
	Body       string       `json:"body"`
	Location   Location     `json:"location"`
}

// Signature returns "ReturnType name(Type a, Type b)".
func (f *Function) Signature() string {
	return f.ReturnType + " " + f.Name + "(" + joinParameters(f.Parameters) + ")"
}

// Parameter is a `Type name` pair.
type Parameter struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// DeclaredType is a fact class declared inline with `declare`.
type DeclaredType struct {
	Name        string   `json:"name"`
	Extends     string   `json:"extends,omitempty"`
	Annotations []string `json:"annotations"` // Opaque "@name(args)" strings
	Fields      []*Field `json:"fields"`
	Location    Location `json:"location"`
}

// HasAnnotation returns true if the type carries an annotation with the
// given name (without the leading '@').
func (d *DeclaredType) HasAnnotation(name string) bool {
	return hasAnnotation(d.Annotations, name)
}

// FindField returns the field with the given name, or nil.
func (d *DeclaredType) FindField(name string) *Field {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is one attribute of a declared type: `name : Type [= default] [@annotation]`.
type Field struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	DefaultValue string   `json:"default_value,omitempty"`
	Annotations  []string `json:"annotations"`
}

// HasAnnotation returns true if the field carries the named annotation.
func (f *Field) HasAnnotation(name string) bool {
	return hasAnnotation(f.Annotations, name)
}

func hasAnnotation(annotations []string, name string) bool {
	for _, a := range annotations {
		rest, ok := strings.CutPrefix(a, "@"+name)
		if ok && (rest == "" || rest[0] == '(' || rest[0] == ' ') {
			return true
		}
	}
	return false
}
