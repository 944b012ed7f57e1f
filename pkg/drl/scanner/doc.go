// Package scanner implements the delimiter-stack automaton shared by the DRL
// section splitter, the constraint and argument splitters and the action
// statement splitter.
//
// The automaton tracks nesting of (), [] and {} (and optionally <> for type
// expressions) together with single and double quoted string state, so that
// separators and keywords inside nested or quoted text are never treated as
// top-level. It never panics on malformed input: mismatched closers,
// unterminated strings and unclosed openers are reported as Problems and
// scanning continues.
//
// Comments are removed up front with Mask, which blanks them with spaces
// while keeping every newline, so byte offsets and line numbers in the masked
// text match the original source.
package scanner
