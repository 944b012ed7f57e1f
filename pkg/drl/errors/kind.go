package errors

// Kind identifies the class of a parse failure.
type Kind int

const (
	FileParsingError Kind = iota
	RuleParsingError
	MalformedRuleError
	ConditionParsingError
	MalformedConditionError
	ActionParsingError
	MalformedActionError
	QueryParsingError
	MalformedQueryError
	FunctionParsingError
	MalformedFunctionError
	DeclaredTypeParsingError
	MalformedDeclaredTypeError
	DeclarationParsingError

	kindCount
)

var kindNames = [...]string{
	FileParsingError:           "FileParsingError",
	RuleParsingError:           "RuleParsingError",
	MalformedRuleError:         "MalformedRuleError",
	ConditionParsingError:      "ConditionParsingError",
	MalformedConditionError:    "MalformedConditionError",
	ActionParsingError:         "ActionParsingError",
	MalformedActionError:       "MalformedActionError",
	QueryParsingError:          "QueryParsingError",
	MalformedQueryError:        "MalformedQueryError",
	FunctionParsingError:       "FunctionParsingError",
	MalformedFunctionError:     "MalformedFunctionError",
	DeclaredTypeParsingError:   "DeclaredTypeParsingError",
	MalformedDeclaredTypeError: "MalformedDeclaredTypeError",
	DeclarationParsingError:    "DeclarationParsingError",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the kind name used in summaries, e.g. "MalformedRuleError".
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "UnknownError"
	}
	return kindNames[k]
}

// ParseKind looks a kind up by its name.
func ParseKind(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Category groups kinds by the construct they concern.
type Category string

const (
	CategoryFile         Category = "file"
	CategoryRule         Category = "rule"
	CategoryCondition    Category = "condition"
	CategoryAction       Category = "action"
	CategoryQuery        Category = "query"
	CategoryFunction     Category = "function"
	CategoryDeclaredType Category = "declared_type"
	CategoryDeclaration  Category = "declaration"
)

// Category returns the construct category of the kind.
func (k Kind) Category() Category {
	switch k {
	case FileParsingError:
		return CategoryFile
	case RuleParsingError, MalformedRuleError:
		return CategoryRule
	case ConditionParsingError, MalformedConditionError:
		return CategoryCondition
	case ActionParsingError, MalformedActionError:
		return CategoryAction
	case QueryParsingError, MalformedQueryError:
		return CategoryQuery
	case FunctionParsingError, MalformedFunctionError:
		return CategoryFunction
	case DeclaredTypeParsingError, MalformedDeclaredTypeError:
		return CategoryDeclaredType
	default:
		return CategoryDeclaration
	}
}

// Disposition records how the parser recovered from an error.
type Disposition int

const (
	// ConstructKept means the surrounding construct was kept and only the
	// offending piece was dropped or flagged.
	ConstructKept Disposition = iota
	// ConstructSkipped means one rule, query, function or declared type was
	// dropped; the rest of the file was still parsed.
	ConstructSkipped
	// FileAborted means the whole file could not be read.
	FileAborted
)

func (d Disposition) String() string {
	switch d {
	case ConstructKept:
		return "construct-partial"
	case ConstructSkipped:
		return "construct-abort"
	case FileAborted:
		return "fatal"
	default:
		return "unknown"
	}
}

// Recoverable returns true if parsing of the file continued.
func (d Disposition) Recoverable() bool {
	return d != FileAborted
}
