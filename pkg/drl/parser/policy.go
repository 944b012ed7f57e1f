package parser

import (
	"fmt"
	"strings"
)

// VariablePolicy controls normalisation of '$'-prefixed variable names.
//
// Drools conventionally prefixes pattern bindings with '$'. The default
// policy strips it from condition bindings only, so `$c : Customer()` yields
// Condition.Variable "c" while action targets such as `$c.setAge(1)` keep
// their source spelling.
type VariablePolicy struct {
	StripConditionBindings bool // Strip '$' from Condition.Variable
	StripActionTargets     bool // Strip a leading '$' from Action.Target
}

var (
	// StripBindings strips '$' from condition bindings only. Default.
	StripBindings = VariablePolicy{StripConditionBindings: true}

	// PreserveVariables keeps every name exactly as written.
	PreserveVariables = VariablePolicy{}

	// StripAll strips '$' from condition bindings and action targets.
	StripAll = VariablePolicy{StripConditionBindings: true, StripActionTargets: true}
)

// Policy names accepted by ParseVariablePolicy and the configuration file.
const (
	PolicyStripBindings = "strip-bindings"
	PolicyPreserve      = "preserve"
	PolicyStripAll      = "strip-all"
)

// ParseVariablePolicy converts a policy name into a VariablePolicy.
// The empty string selects the default.
func ParseVariablePolicy(name string) (VariablePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyStripBindings, "strip":
		return StripBindings, nil
	case PolicyPreserve, "keep":
		return PreserveVariables, nil
	case PolicyStripAll:
		return StripAll, nil
	default:
		return StripBindings, fmt.Errorf("unknown variable policy %q (want %s, %s or %s)",
			name, PolicyStripBindings, PolicyPreserve, PolicyStripAll)
	}
}

// String returns the policy name.
func (vp VariablePolicy) String() string {
	switch vp {
	case StripBindings:
		return PolicyStripBindings
	case PreserveVariables:
		return PolicyPreserve
	case StripAll:
		return PolicyStripAll
	default:
		return fmt.Sprintf("custom(bindings=%t, targets=%t)", vp.StripConditionBindings, vp.StripActionTargets)
	}
}

func (vp VariablePolicy) binding(name string) string {
	if vp.StripConditionBindings {
		return strings.TrimPrefix(name, "$")
	}
	return name
}

func (vp VariablePolicy) target(name string) string {
	if vp.StripActionTargets {
		return strings.TrimPrefix(name, "$")
	}
	return name
}
