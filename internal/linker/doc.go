// Package linker detects glossary terms inside ordered markdown fields and
// turns the first unlinked occurrence of each term into a markdown link.
//
// A linking pass is a pure function of (vocabulary, fields): nothing is
// cached between calls and the caller owns every input. The read-only
// counterpart, Connected, reports which terms are already present as exact
// link labels so callers can synchronise term relations.
//
// Link recognition is deliberately limited to single `[label](destination)`
// constructs. Labels may not contain `]` and destinations may not contain
// `)`; anything else is treated as plain text.
package linker
