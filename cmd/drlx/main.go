// drlx parses Drools DRL rule files into a structured model.
//
// Parsing is permissive: a malformed rule, query, function or declared type
// is reported and skipped while the rest of the file is still parsed.
//
// Usage:
//
//	# Parse a directory and print the rules as JSON
//	drlx parse rules/ --format json
//
//	# Report problems with source context, failing CI on any finding
//	drlx lint rules/ --strict
//
//	# Parse the rules of a Git repository and record a report
//	drlx parse --git-url https://github.com/acme/rules.git --git-path drl --record
//
//	# Re-parse on every change and export Prometheus metrics
//	drlx watch rules/ --metrics-addr :9090
//
//	# Show recorded parse runs
//	drlx history --limit 20
package main

func main() {
	Execute()
}
