package ast

// Rule represents a single DRL rule block.
type Rule struct {
	Name       string            `json:"name"`                 // Rule name (required, non-empty)
	Extends    string            `json:"extends,omitempty"`    // Parent rule name, resolved by consumers
	Attributes map[string]string `json:"attributes"`           // no-loop, agenda-group, @annotations, ...
	Salience   *int              `json:"salience,omitempty"`   // nil when the rule has no integer salience
	Conditions []*Condition      `json:"conditions"`           // LHS patterns in source order
	Actions    []*Action         `json:"actions"`              // RHS statements in source order
	Location   Location          `json:"location"`             // Position of the `rule` keyword
}

// HasSalience returns true if an integer salience was declared.
func (r *Rule) HasSalience() bool {
	return r.Salience != nil
}

// SalienceOr returns the declared salience or def when none was declared.
func (r *Rule) SalienceOr(def int) int {
	if r.Salience == nil {
		return def
	}
	return *r.Salience
}

// Attribute returns the value of the named attribute and whether it was set.
func (r *Rule) Attribute(name string) (string, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// GetActionsByType returns all actions of the given type in this rule.
func (r *Rule) GetActionsByType(actionType ActionType) []*Action {
	var result []*Action
	for _, action := range r.Actions {
		if action.Type == actionType {
			result = append(result, action)
		}
	}
	return result
}

// Condition is one pattern of a LHS: `[binding :] Type(constraints)`.
type Condition struct {
	Variable    string        `json:"variable"`            // Pattern binding, empty for unbound patterns
	Type        string        `json:"type"`                // Matched class name
	Qualifier   Qualifier     `json:"qualifier,omitempty"` // not / exists / forall wrapper
	Constraints []*Constraint `json:"constraints"`
	Location    Location      `json:"location"`
}

// IsBound returns true if the pattern binds a variable.
func (c *Condition) IsBound() bool {
	return c.Variable != ""
}

// Qualifier is the conditional element wrapping a pattern.
type Qualifier string

const (
	QualifierNone   Qualifier = ""
	QualifierNot    Qualifier = "not"
	QualifierExists Qualifier = "exists"
	QualifierForall Qualifier = "forall"
)

// Constraint is one field test inside a pattern.
// Operator and Value are empty when the fragment could not be matched
// against a known operator; the parser records a diagnostic in that case.
type Constraint struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Quoted   bool   `json:"quoted,omitempty"` // Value was a string literal; quotes removed
}

// IsComplete returns true if field, operator and value are all present.
func (c *Constraint) IsComplete() bool {
	return c.Field != "" && c.Operator != "" && c.Value != ""
}

// ActionType identifies the kind of a consequence statement.
type ActionType string

const (
	ActionMethodCall ActionType = "method_call" // target.method(args) or callee(args)
	ActionAssignment ActionType = "assignment"  // target = expr
	ActionOther      ActionType = "other"       // anything else, raw text kept as the only argument
)

// Valid returns true if t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionMethodCall, ActionAssignment, ActionOther:
		return true
	default:
		return false
	}
}

// Action is one statement of a rule consequence.
type Action struct {
	Type      ActionType `json:"type"`
	Target    string     `json:"target"`
	Method    string     `json:"method,omitempty"`
	Arguments []string   `json:"arguments"`
	Location  Location   `json:"location"`
}
