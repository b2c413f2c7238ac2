// Package strip turns TypeScript into JavaScript by removing type syntax.
//
// # Overview
//
// Transpile makes a single recursive-descent pass over the source. There is
// no syntax tree: every token is copied to the output as soon as it is
// matched, and tokens that only carry type information are replaced by
// spaces of the same width. Line breaks are always kept, so every line of
// the output corresponds to the same line of the input and stack traces
// and breakpoints line up without source maps.
//
//	let x: number = 1 + 2;
//	let x         = 1 + 2;
//
// # Matching
//
// The grammar is written against a small matcher. An Atom is a literal
// (Lit) or a token class (*Pattern); atoms match anchored at the current
// offset and consume the whitespace and comments that follow them. Each
// match happens in one of three modes:
//
//   - eat copies the matched text to the output,
//   - skip writes spaces instead, keeping line breaks,
//   - peek only reports whether the atoms would match.
//
// # Backtracking
//
// Some constructs cannot be told apart by looking ahead a fixed number of
// tokens: "(a, b)" may be arrow function parameters or a parenthesized
// expression, and "f<T>(x)" may be a generic call or two comparisons.
// These are parsed speculatively with a checkpoint; when the speculative
// parse fails, offset, position, output and failure bookkeeping are put
// back exactly as they were.
//
// # Rewrites
//
// A few constructs need more than blanking:
//
//	enum Dir { Up, Down }
//	var Dir = (function (Dir) {Dir[(Dir["Up"] = 0)] = "Up";Dir[(Dir["Down"] = 1)] = "Down";return Dir;})(Dir || {});
//
// Constructor parameter properties become assignments at the start of the
// constructor body, or after the super() call when there is one.
// Interfaces, type aliases, type-only imports and ambient declarations are
// blanked entirely.
//
// # Errors
//
// A failed parse returns a *ParseError naming the innermost grammar rule,
// the position, the upcoming input and what was expected there. With
// WithRecover, malformed statements are reported to the logger and to the
// WithErrorHandler callback and copied through unchanged, and parsing
// resumes at the next statement.
package strip
