// Package revision implements the calendar-versioned release identifier used
// by the calver CLI.
//
// A Revision has the textual form YY.MM.REV[.HOTFIX]: a two-digit year
// (offset from 2000), a two-digit month, a release counter within the month,
// and an optional hotfix counter. Trailing fields that were never supplied
// are absent rather than zero, and are omitted when the revision is printed.
//
// Revisions are immutable values. Every derivation (NextVersion, Hotfix,
// MonthStart) returns a new Revision built through the same format-and-parse
// path as a literal string, so both routes share one formatting rule.
package revision
