package parser

import (
	"regexp"

	"drools-graph/drlx/pkg/drl/scanner"
)

// sniffLen is how much of a file LooksLikeRuleFile inspects.
const sniffLen = 4096

var ruleFileMarker = regexp.MustCompile(
	`(?m)^\s*(?:package\s+[\w.]+|import\s+[\w.]+|global\s+\S+\s+\w+|rule\s+\S|query\s+\S|function\s+\S+\s+\w+\s*\(|declare\s+\w)`)

// LooksLikeRuleFile reports whether the first 4 KiB of data contain a DRL
// top-level keyword outside comments.
func LooksLikeRuleFile(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return ruleFileMarker.MatchString(scanner.Mask(decode(data)))
}
