// Package ast defines the entity model produced by the DRL parser.
//
// A parsed rule file is a tree rooted at RuleFile. Every node is created
// exactly once by the sub-parser that owns it and is not mutated afterwards;
// consumers (graph builders, linters, report writers) treat the tree as
// read-only.
//
// # Node Types
//
//   - RuleFile: one parsed .drl file (package, imports, globals, constructs)
//   - Rule: a rule block with attributes, conditions (LHS) and actions (RHS)
//   - Condition / Constraint: a matched pattern and its field tests
//   - Action: one statement of a consequence block
//   - Query, Function, DeclaredType: the remaining top-level constructs
//
// References between constructs are by name only. Rule.Extends and
// DeclaredType.Extends hold the parent's name, never a pointer; resolving them
// is left to the consumer.
//
// # Rendering
//
// Every node implements fmt.Stringer and renders canonical DRL text, which is
// what the CLI prints in text mode:
//
//	fmt.Println(file.Rules[0])
//	// rule "Adult"
//	//     salience 10
//	// when
//	//     $c : Customer(age > 18)
//	// then
//	//     System.out.println("adult");
//	// end
//
// # Traversal
//
// Walk visits every node in source order with a Visitor; see visitor.go.
package ast
