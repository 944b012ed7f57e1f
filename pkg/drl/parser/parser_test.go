package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"drools-graph/drlx/pkg/drl/ast"
	drlErrors "drools-graph/drlx/pkg/drl/errors"
)

// parse parses src with a fresh default parser.
func parse(t *testing.T, src string) (*ast.RuleFile, *Parser) {
	t.Helper()
	p := NewParser()
	return p.ParseBytes([]byte(src), "test.drl"), p
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSingleLineRule(t *testing.T) {
	file, p := parse(t, `rule "R1" when $c : Customer(age > 18) then System.out.println("ok"); end`)

	if len(file.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(file.Rules))
	}
	rule := file.Rules[0]
	if rule.Name != "R1" {
		t.Errorf("name = %q, want R1", rule.Name)
	}

	if len(rule.Conditions) != 1 {
		t.Fatalf("conditions = %d, want 1", len(rule.Conditions))
	}
	cond := rule.Conditions[0]
	if cond.Variable != "c" || cond.Type != "Customer" {
		t.Errorf("condition = %q : %q, want c : Customer", cond.Variable, cond.Type)
	}
	want := []*ast.Constraint{{Field: "age", Operator: ">", Value: "18"}}
	if diff := cmp.Diff(want, cond.Constraints); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}

	if len(rule.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(rule.Actions))
	}
	action := rule.Actions[0]
	if action.Type != ast.ActionMethodCall || action.Target != "System.out" || action.Method != "println" {
		t.Errorf("action = %+v, want method_call System.out.println", action)
	}
	if diff := cmp.Diff([]string{`"ok"`}, action.Arguments); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}

	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseRuleMissingWhen(t *testing.T) {
	file, p := parse(t, `package com.acme;

rule "NoWhen"
then
    System.out.println("fired");
end
`)

	if len(file.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(file.Rules))
	}
	rule := file.Rules[0]
	if rule.Conditions == nil || len(rule.Conditions) != 0 {
		t.Errorf("conditions = %v, want empty", rule.Conditions)
	}
	if len(rule.Actions) != 1 {
		t.Errorf("actions = %d, want 1", len(rule.Actions))
	}
	if got := p.ErrorSummary()["MalformedRuleError"]; got != 1 {
		t.Errorf("MalformedRuleError = %d, want 1", got)
	}
	if total := p.ErrorReport().Total; total != 1 {
		t.Errorf("total errors = %d, want 1", total)
	}
}

func TestParseRuleMissingThen(t *testing.T) {
	file, p := parse(t, `rule "NoThen"
when
    Order( total > 100 )
end
`)
	if len(file.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(file.Rules))
	}
	if got := len(file.Rules[0].Conditions); got != 1 {
		t.Errorf("conditions = %d, want 1", got)
	}
	if got := len(file.Rules[0].Actions); got != 0 {
		t.Errorf("actions = %d, want 0", got)
	}
	if got := p.ErrorSummary()["MalformedRuleError"]; got != 1 {
		t.Errorf("MalformedRuleError = %d, want 1", got)
	}
}

func TestParseExtendsWithoutSalience(t *testing.T) {
	file, _ := parse(t, `rule "Child" extends "Base Rule"
when
    Order( )
then
end
`)
	if len(file.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(file.Rules))
	}
	rule := file.Rules[0]
	if rule.Extends != "Base Rule" {
		t.Errorf("extends = %q, want %q", rule.Extends, "Base Rule")
	}
	if rule.Salience != nil {
		t.Errorf("salience = %d, want unset", *rule.Salience)
	}
	if rule.HasSalience() {
		t.Error("HasSalience() = true")
	}
}

func TestParseQueryMissingEnd(t *testing.T) {
	file, p := parse(t, `query "broken"
    $c : Customer( age > 18 )

query "adults"
    $c : Customer( age >= 18 )
end
`)

	if len(file.Queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(file.Queries))
	}
	if file.Queries[0].Name != "adults" {
		t.Errorf("query = %q, want adults", file.Queries[0].Name)
	}
	if got := len(file.Queries[0].Conditions); got != 1 {
		t.Errorf("conditions = %d, want 1", got)
	}
	if got := p.ErrorSummary()["MalformedQueryError"]; got != 1 {
		t.Errorf("MalformedQueryError = %d, want 1", got)
	}
}

func TestParseQueryParameters(t *testing.T) {
	file, p := parse(t, `query "byAge"(int minAge, String city)
    $c : Customer( age >= minAge, city == city )
end
`)
	if len(file.Queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(file.Queries))
	}
	want := []*ast.Parameter{{Type: "int", Name: "minAge"}, {Type: "String", Name: "city"}}
	if diff := cmp.Diff(want, file.Queries[0].Parameters); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0", n)
	}
}

func TestParseQueryBadCondition(t *testing.T) {
	file, p := parse(t, `query "bad"
    $c : 9Customer( age > 1 )
end

query "good"
    Customer( )
end
`)
	if len(file.Queries) != 1 || file.Queries[0].Name != "good" {
		t.Fatalf("queries = %v, want only good", file.Queries)
	}
	if got := p.ErrorSummary()["QueryParsingError"]; got != 1 {
		t.Errorf("QueryParsingError = %d, want 1", got)
	}
}

func TestParseConstraintDelimiters(t *testing.T) {
	file, p := parse(t, `rule "Quoted"
when
    $p : Person( name == "Smith, John", age > 18, tags contains "a,b" )
then
end
`)
	cond := file.Rules[0].Conditions[0]
	want := []*ast.Constraint{
		{Field: "name", Operator: "==", Value: "Smith, John", Quoted: true},
		{Field: "age", Operator: ">", Value: "18"},
		{Field: "tags", Operator: "contains", Value: "a,b", Quoted: true},
	}
	if diff := cmp.Diff(want, cond.Constraints); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0", n)
	}
}

func TestParseConstraintForms(t *testing.T) {
	tests := []struct {
		name string
		frag string
		want *ast.Constraint
	}{
		{"equals", "status == Status.OPEN", &ast.Constraint{Field: "status", Operator: "==", Value: "Status.OPEN"}},
		{"not equals", "age != 0", &ast.Constraint{Field: "age", Operator: "!=", Value: "0"}},
		{"greater or equal", "age >= 21", &ast.Constraint{Field: "age", Operator: ">=", Value: "21"}},
		{"less or equal", "age <= 65", &ast.Constraint{Field: "age", Operator: "<=", Value: "65"}},
		{"less", "score < 10", &ast.Constraint{Field: "score", Operator: "<", Value: "10"}},
		{"matches", `email matches ".*@acme.com"`, &ast.Constraint{Field: "email", Operator: "matches", Value: ".*@acme.com", Quoted: true}},
		{"not matches", `email not matches "x"`, &ast.Constraint{Field: "email", Operator: "not matches", Value: "x", Quoted: true}},
		{"memberOf", "city memberOf $cities", &ast.Constraint{Field: "city", Operator: "memberOf", Value: "$cities"}},
		{"boolean call", "isActive()", &ast.Constraint{Field: "isActive()", Operator: "==", Value: "true"}},
		{"negated call", "!items.isEmpty()", &ast.Constraint{Field: "items.isEmpty()", Operator: "==", Value: "false"}},
		{"inline binding", "$a : age > 30", &ast.Constraint{Field: "age", Operator: ">", Value: "30"}},
		{"parenthesised", "(total > 100)", &ast.Constraint{Field: "total", Operator: ">", Value: "100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, p := parse(t, "rule \"C\"\nwhen\n    Fact( "+tt.frag+" )\nthen\nend\n")
			got := file.Rules[0].Conditions[0].Constraints
			if len(got) != 1 {
				t.Fatalf("constraints = %d, want 1", len(got))
			}
			if diff := cmp.Diff(tt.want, got[0]); diff != "" {
				t.Errorf("constraint mismatch (-want +got):\n%s", diff)
			}
			if n := p.ErrorReport().Total; n != 0 {
				t.Errorf("errors = %d, want 0: %v", n, p.Errors())
			}
		})
	}
}

func TestParseUnrecognisedConstraint(t *testing.T) {
	file, p := parse(t, `rule "Odd"
when
    Fact( age ~ 3, total > 1 )
then
end
`)
	got := file.Rules[0].Conditions[0].Constraints
	want := []*ast.Constraint{
		{Field: "age ~ 3"},
		{Field: "total", Operator: ">", Value: "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
	if got := p.ErrorSummary()["MalformedConditionError"]; got != 1 {
		t.Errorf("MalformedConditionError = %d, want 1", got)
	}
}

func TestParseFieldBindingIsNotConstraint(t *testing.T) {
	file, p := parse(t, `rule "Bind"
when
    Person( $n : name, age > 1 )
then
end
`)
	got := file.Rules[0].Conditions[0].Constraints
	if len(got) != 1 || got[0].Field != "age" {
		t.Errorf("constraints = %v, want only age", got)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0", n)
	}
}

func TestParseBooleanFields(t *testing.T) {
	file, p := parse(t, `rule "Flags"
when
    Customer( active, !closed, $n : name )
then
end
`)
	got := file.Rules[0].Conditions[0].Constraints
	want := []*ast.Constraint{
		{Field: "active", Operator: "==", Value: "true"},
		{Field: "closed", Operator: "==", Value: "false"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseConjunctions(t *testing.T) {
	tests := []struct {
		name      string
		frags     string
		want      []*ast.Constraint
		malformed int
	}{
		{
			name:  "two fields",
			frags: `age > 18 && age < 65, name == "Smith, John"`,
			want: []*ast.Constraint{
				{Field: "age", Operator: ">", Value: "18"},
				{Field: "age", Operator: "<", Value: "65"},
				{Field: "name", Operator: "==", Value: "Smith, John", Quoted: true},
			},
		},
		{
			name:  "abbreviated field",
			frags: "age > 18 && < 65",
			want: []*ast.Constraint{
				{Field: "age", Operator: ">", Value: "18"},
				{Field: "age", Operator: "<", Value: "65"},
			},
		},
		{
			name:  "binding and group",
			frags: `$a : age >= 21 && (status == "OPEN" && active)`,
			want: []*ast.Constraint{
				{Field: "age", Operator: ">=", Value: "21"},
				{Field: "status", Operator: "==", Value: "OPEN", Quoted: true},
				{Field: "active", Operator: "==", Value: "true"},
			},
		},
		{
			name:  "ampersands inside a call",
			frags: `check(a && b)`,
			want: []*ast.Constraint{
				{Field: "check(a && b)", Operator: "==", Value: "true"},
			},
		},
		{
			name:  "disjunction",
			frags: "age < 18 || age > 65, vip == true",
			want: []*ast.Constraint{
				{Field: "age < 18 || age > 65"},
				{Field: "vip", Operator: "==", Value: "true"},
			},
			malformed: 1,
		},
		{
			name:  "empty conjunct",
			frags: "age > 1 &&",
			want: []*ast.Constraint{
				{Field: "age", Operator: ">", Value: "1"},
			},
			malformed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, p := parse(t, "rule \"C\"\nwhen\n    $c : Customer( "+tt.frags+" )\nthen\nend\n")
			got := file.Rules[0].Conditions[0].Constraints
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("constraints mismatch (-want +got):\n%s", diff)
			}
			if got := p.ErrorSummary()["MalformedConditionError"]; got != tt.malformed {
				t.Errorf("MalformedConditionError = %d, want %d", got, tt.malformed)
			}
		})
	}
}

func TestParseUnresolvableConditionType(t *testing.T) {
	file, p := parse(t, `rule "BadType"
when
    $c : 9Customer( age > 1 )
then
    System.out.println("x");
end
`)
	if len(file.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(file.Rules))
	}
	rule := file.Rules[0]
	if len(rule.Conditions) != 0 {
		t.Errorf("conditions = %d, want 0", len(rule.Conditions))
	}
	if len(rule.Actions) != 1 {
		t.Errorf("actions = %d, want 1", len(rule.Actions))
	}
	if got := p.ErrorSummary()["ConditionParsingError"]; got != 1 {
		t.Errorf("ConditionParsingError = %d, want 1", got)
	}
}

func TestParseConditionalElements(t *testing.T) {
	file, p := parse(t, `rule "CE"
when
    $o : Order( total > 0 )
    not Account( balance < 0 )
    exists( Invoice( paid == false ) )
    eval( $o.getTotal() > 10 )
    ( Customer( vip == true ) or Customer( age > 60 ) )
then
end
`)
	conds := file.Rules[0].Conditions
	var got []string
	for _, c := range conds {
		got = append(got, string(c.Qualifier)+":"+c.Type)
	}
	want := []string{":Order", "not:Account", "exists:Invoice", ":Customer", ":Customer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseActions(t *testing.T) {
	file, p := parse(t, `rule "Actions"
when
    $c : Customer( )
then
    $c.setStatus("gold; member");
    total = total + 1;
    int count = 0;
    update($c);
    if ($c.getAge() > 18) { insert(new Adult($c)); }
    list.forEach(x -> { log(x); });
end
`)
	actions := file.Rules[0].Actions
	type summary struct {
		Type   ast.ActionType
		Target string
		Method string
	}
	var got []summary
	for _, a := range actions {
		got = append(got, summary{a.Type, a.Target, a.Method})
	}
	want := []summary{
		{ast.ActionMethodCall, "$c", "setStatus"},
		{ast.ActionAssignment, "total", ""},
		{ast.ActionAssignment, "count", ""},
		{ast.ActionMethodCall, "update", ""},
		{ast.ActionOther, "if", ""},
		{ast.ActionMethodCall, "list", "forEach"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{`"gold; member"`}, actions[0].Arguments); diff != "" {
		t.Errorf("first action arguments (-want +got):\n%s", diff)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseMalformedActionIsolated(t *testing.T) {
	tests := []struct {
		name string
		then string
		want []string
	}{
		{
			name: "unterminated string",
			then: "    System.out.println(\"oops);\n    $c.setAge(1);\n",
			want: []string{"setAge"},
		},
		{
			name: "unclosed call",
			then: "    log(\"a\";\n    $c.setAge(1);\n    update($c);\n",
			want: []string{"setAge", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, p := parse(t, "rule \"Broken action\"\nwhen\n    $c : Customer( )\nthen\n"+tt.then+"end\n")
			if len(file.Rules) != 1 {
				t.Fatalf("rules = %d, want 1", len(file.Rules))
			}
			var got []string
			for _, a := range file.Rules[0].Actions {
				got = append(got, a.Method)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("action methods mismatch (-want +got):\n%s", diff)
			}
			if got := p.ErrorSummary()["ActionParsingError"]; got != 1 {
				t.Errorf("ActionParsingError = %d, want 1", got)
			}
		})
	}
}

func TestParseEndInsideString(t *testing.T) {
	file, p := parse(t, `rule "Strings"
when
    Event( name == "end" )
then
    System.out.println("the end");
end

rule "Second"
when
then
end
`)
	if len(file.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(file.Rules))
	}
	if got := len(file.Rules[0].Actions); got != 1 {
		t.Errorf("actions = %d, want 1", got)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseRuleAttributes(t *testing.T) {
	file, p := parse(t, `rule "Attrs"
    salience 10
    no-loop
    lock-on-active true
    agenda-group "billing"
    @Owner(team-a)
when
then
end

rule "Dynamic"
    salience ($p.getPriority())
when
then
end
`)
	rule := file.FindRule("Attrs")
	if rule == nil {
		t.Fatal("rule Attrs not found")
	}
	if rule.SalienceOr(0) != 10 {
		t.Errorf("salience = %d, want 10", rule.SalienceOr(0))
	}
	want := map[string]string{
		"no-loop":        "true",
		"lock-on-active": "true",
		"agenda-group":   "billing",
		"@Owner":         "team-a",
	}
	if diff := cmp.Diff(want, rule.Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	dynamic := file.FindRule("Dynamic")
	if dynamic.Salience != nil {
		t.Errorf("dynamic salience = %d, want unset", *dynamic.Salience)
	}
	if v, _ := dynamic.Attribute("salience"); v != "($p.getPriority())" {
		t.Errorf("salience attribute = %q", v)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseHeader(t *testing.T) {
	file, p := parse(t, `package com.acme.rules;

import com.acme.model.Customer;
import com.acme.model.*;
import function com.acme.Util.format;
global java.util.List results;
dialect "mvel"

rule "R"
when
then
end

global Logger log;
`)
	if file.Package != "com.acme.rules" {
		t.Errorf("package = %q", file.Package)
	}

	var imports []string
	for _, imp := range file.Imports {
		imports = append(imports, imp.String())
	}
	wantImports := []string{
		"import com.acme.model.Customer;",
		"import com.acme.model.*;",
		"import function com.acme.Util.format;",
	}
	if diff := cmp.Diff(wantImports, imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	if file.Imports[0].ClassName != "Customer" || file.Imports[0].Package != "com.acme.model" {
		t.Errorf("import split = %+v", file.Imports[0])
	}

	if len(file.Globals) != 2 {
		t.Fatalf("globals = %d, want 2", len(file.Globals))
	}
	if g := file.Globals[0]; g.Type != "java.util.List" || g.Name != "results" {
		t.Errorf("global = %+v", g)
	}
	if g := file.Globals[1]; g.Type != "Logger" || g.Name != "log" {
		t.Errorf("trailing global = %+v", g)
	}
	if n := p.ErrorReport().Total; n != 0 {
		t.Errorf("errors = %d, want 0: %v", n, p.Errors())
	}
}

func TestParseMalformedDeclarations(t *testing.T) {
	_, p := parse(t, `package com.acme;
import ;
global List;
banana split
`)
	if got := p.ErrorSummary()["DeclarationParsingError"]; got != 3 {
		t.Errorf("DeclarationParsingError = %d, want 3: %v", got, p.Errors())
	}
}

func TestParseFunctions(t *testing.T) {
	file, p := parse(t, `function String greet(String name, int times) {
    return "Hello " + name;
}

function greet2(String name) {
    return name;
}

function void noBody(int x) {
    if (x > 0) {

rule "After"
when
then
end
`)
	if len(file.Functions) != 1 {
		t.Fatalf("functions = %d, want 1", len(file.Functions))
	}
	fn := file.Functions[0]
	if fn.Signature() != "String greet(String name, int times)" {
		t.Errorf("signature = %q", fn.Signature())
	}
	if fn.Body != `return "Hello " + name;` {
		t.Errorf("body = %q", fn.Body)
	}

	counts := p.ErrorSummary()
	if counts["FunctionParsingError"] != 1 {
		t.Errorf("FunctionParsingError = %d, want 1", counts["FunctionParsingError"])
	}
	if counts["MalformedFunctionError"] != 1 {
		t.Errorf("MalformedFunctionError = %d, want 1", counts["MalformedFunctionError"])
	}
	if file.FindRule("After") == nil {
		t.Error("rule after the broken function was not parsed")
	}
}

func TestParseDeclaredTypes(t *testing.T) {
	file, p := parse(t, `declare Person extends Base
    @role(fact)
    name : String @key
    age : int = 18
    broken
end

declare Partial
    id : long
rule "After"
when
then
end
`)
	if len(file.DeclaredTypes) != 2 {
		t.Fatalf("declared types = %d, want 2", len(file.DeclaredTypes))
	}

	person := file.FindDeclaredType("Person")
	if person.Extends != "Base" {
		t.Errorf("extends = %q", person.Extends)
	}
	if !person.HasAnnotation("role") {
		t.Errorf("annotations = %v, want @role", person.Annotations)
	}
	want := []*ast.Field{
		{Name: "name", Type: "String", Annotations: []string{"@key"}},
		{Name: "age", Type: "int", DefaultValue: "18", Annotations: []string{}},
	}
	if diff := cmp.Diff(want, person.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	partial := file.FindDeclaredType("Partial")
	if len(partial.Fields) != 1 || partial.Fields[0].Name != "id" {
		t.Errorf("partial fields = %v", partial.Fields)
	}
	if got := p.ErrorSummary()["MalformedDeclaredTypeError"]; got != 2 {
		t.Errorf("MalformedDeclaredTypeError = %d, want 2", got)
	}
	if file.FindRule("After") == nil {
		t.Error("rule after the unterminated declaration was not parsed")
	}
}

func TestVariablePolicy(t *testing.T) {
	src := `rule "V"
when
    $c : Customer( )
then
    $c.setAge(1);
end
`
	tests := []struct {
		policy       VariablePolicy
		wantVariable string
		wantTarget   string
	}{
		{StripBindings, "c", "$c"},
		{PreserveVariables, "$c", "$c"},
		{StripAll, "c", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			p := NewParser().WithVariablePolicy(tt.policy)
			rule := p.ParseBytes([]byte(src), "v.drl").Rules[0]
			if got := rule.Conditions[0].Variable; got != tt.wantVariable {
				t.Errorf("variable = %q, want %q", got, tt.wantVariable)
			}
			if got := rule.Actions[0].Target; got != tt.wantTarget {
				t.Errorf("target = %q, want %q", got, tt.wantTarget)
			}
		})
	}
}

func TestParseVariablePolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    VariablePolicy
		wantErr bool
	}{
		{"", StripBindings, false},
		{"strip-bindings", StripBindings, false},
		{"Preserve", PreserveVariables, false},
		{"keep", PreserveVariables, false},
		{" strip-all ", StripAll, false},
		{"sometimes", StripBindings, true},
	}
	for _, tt := range tests {
		got, err := ParseVariablePolicy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariablePolicy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseVariablePolicy(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseFileErrors(t *testing.T) {
	p := NewParser()

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "absent.drl"))
	var perr *drlErrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *errors.Error", err)
	}
	if perr.Kind != drlErrors.FileParsingError || perr.Disposition != drlErrors.FileAborted {
		t.Errorf("error = %s/%s", perr.Kind, perr.Disposition)
	}

	big := writeFile(t, t.TempDir(), "big.drl", strings.Repeat("x", 64))
	if _, err := p.WithMaxFileSize(16).ParseFile(big); err == nil {
		t.Error("oversized file should fail")
	}
	if got := p.ErrorSummary()["FileParsingError"]; got != 2 {
		t.Errorf("FileParsingError = %d, want 2", got)
	}
}

func TestParseFileLatin1(t *testing.T) {
	src := []byte("rule \"Caf\xe9\"\nwhen\nthen\nend\n")
	path := filepath.Join(t.TempDir(), "latin1.drl")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := NewParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(file.Rules) != 1 || file.Rules[0].Name != "Café" {
		t.Errorf("rules = %v, want Café", file.Rules)
	}
}

func TestParseIdempotent(t *testing.T) {
	src, err := os.ReadFile("testdata/orders.drl")
	if err != nil {
		t.Fatal(err)
	}

	first := NewParser().ParseBytes(src, "orders.drl")
	second := NewParser().ParseBytes(src, "orders.drl")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second parse differs (-first +second):\n%s", diff)
	}

	// Rendering and reparsing keeps the rule structure.
	again := NewParser().ParseBytes([]byte(first.String()), "orders.drl")
	if got, want := ast.CollectStats(again), ast.CollectStats(first); got != want {
		t.Errorf("reparsed stats = %+v, want %+v", got, want)
	}
}

func TestErrorsResetAndLocation(t *testing.T) {
	_, p := parse(t, "rule \"NoWhen\"\nthen\nend\n")
	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if errs[0].Location.Line != 1 || errs[0].Construct != "NoWhen" {
		t.Errorf("error = %+v", errs[0])
	}
	if !strings.Contains(errs[0].Context, `>> 1 | rule "NoWhen"`) {
		t.Errorf("context = %q", errs[0].Context)
	}

	p.ResetErrors()
	for kind, n := range p.ErrorSummary() {
		if n != 0 {
			t.Errorf("%s = %d after reset", kind, n)
		}
	}
	if len(p.ErrorSummary()) != len(drlErrors.Kinds()) {
		t.Errorf("summary has %d kinds, want %d", len(p.ErrorSummary()), len(drlErrors.Kinds()))
	}
}

func TestLooksLikeRuleFile(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"package", "package com.acme;\n", true},
		{"rule", "\n\nrule \"x\"\nwhen\nthen\nend", true},
		{"declare", "declare Person\nend", true},
		{"commented", "// rule \"x\"\n/* package a.b; */\nhello", false},
		{"prose", "This file describes the ruleset.", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeRuleFile([]byte(tt.data)); got != tt.want {
				t.Errorf("LooksLikeRuleFile() = %v, want %v", got, tt.want)
			}
		})
	}
}
