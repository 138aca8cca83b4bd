// Package dice parses compact dice notation such as "2d10+3-5 attack" and
// resolves it against a shared random source.
//
// Parsing is pure: the same text always yields the same Request. Only
// Resolve draws random values.
package dice
