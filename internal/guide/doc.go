// Package guide turns a Revision into git reconciliation guidance.
//
// Each mode of the CLI maps to a builder (NextVersion, Hotfix, MonthStart)
// that returns a Plan: the sentences shown to a human, any cautions, and
// an ordered list of machine-readable steps for tooling that wants to act
// on the plan itself. The package never runs git; it only describes what
// should be done.
//
// Render writes a Plan as plain text, JSON, or YAML.
package guide
