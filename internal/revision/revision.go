package revision

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// yearOffset is the calendar year represented by a two-digit year of 00.
const yearOffset = 2000

// separator joins the fields of the textual form.
const separator = "."

// maxFields is the number of positional fields a revision string carries:
// year, month, revision count and hotfix count.
const maxFields = 4

// Revision is a parsed calendar version. Use Parse or FromDate to build one.
type Revision struct {
	year     int
	month    int
	revCount Count
	hotfix   Count
}

// Parse builds a Revision from a dotted string of up to four fields.
//
// Parsing never fails. Fields are assigned positionally to year, month,
// revision count and hotfix count; fields past the fourth are ignored.
// Trailing empty fields are dropped, so "24.03." has two fields. Any field
// that does not start with an integer reads as 0 ("x" is 0, "7b" is 7).
// A missing revision or hotfix count stays absent, and a missing year or
// month reads as 0.
func Parse(s string) Revision {
	fields := splitFields(s)

	var r Revision
	for i, f := range fields {
		n := leadingInt(f)
		switch i {
		case 0:
			r.year = n
		case 1:
			r.month = n
		case 2:
			r.revCount = Some(n)
		case 3:
			r.hotfix = Some(n)
		}
	}
	return r
}

// FromDate returns the first release of the month containing t, in the
// form YY.MM.1. It is the input used when no previous version is given.
func FromDate(t time.Time) Revision {
	return Parse(t.Format("06.01") + ".1")
}

// Year returns the two-digit year (the calendar year minus 2000).
func (r Revision) Year() int {
	return r.year
}

// Month returns the calendar month number.
func (r Revision) Month() int {
	return r.month
}

// RevCount returns the release counter within the month.
func (r Revision) RevCount() Count {
	return r.revCount
}

// HotfixCount returns the hotfix counter. It is present only on hotfix builds.
func (r Revision) HotfixCount() Count {
	return r.hotfix
}

// String formats the revision as YY.MM.REV.HOTFIX, dropping absent
// trailing fields. Year and month are zero-padded to two digits.
func (r Revision) String() string {
	return formatFields(r.year, r.month, r.revCount, r.hotfix)
}

// NextVersion returns the next release of the same month: the revision
// count goes up by one (or starts at 1) and any hotfix count is dropped.
func (r Revision) NextVersion() Revision {
	return newRevision(r.year, r.month, r.revCount.Next(), None())
}

// Hotfix returns the next hotfix iteration of the same release: year,
// month and revision count are unchanged and the hotfix count goes up by
// one (or starts at 1).
func (r Revision) Hotfix() Revision {
	return newRevision(r.year, r.month, r.revCount, r.hotfix.Next())
}

// IsHotfix reports whether the revision denotes a hotfix build.
func (r Revision) IsHotfix() bool {
	return r.hotfix.IsSet()
}

// MonthStart returns the first release of the calendar month after r's
// month, rolling December over into January of the following year. The
// two-digit year wraps from 99 to 00.
func (r Revision) MonthStart() Revision {
	// time.Date normalizes month 13 into January of the next year.
	next := time.Date(yearOffset+r.year, time.Month(r.month)+1, 1, 0, 0, 0, 0, time.UTC)
	year := ((next.Year()-yearOffset)%100 + 100) % 100
	return newRevision(year, int(next.Month()), Some(1), None())
}

// CurrentMonth returns "YY.MM", the name of the monthly development branch.
func (r Revision) CurrentMonth() string {
	return formatFields(r.year, r.month, None(), None())
}

// ParentBranch returns the branch a new branch derived from r should fork
// from. For a hotfix (or when forceHotfix is set) that is the release
// branch "YY.MM.REV"; otherwise it is the monthly branch "YY.MM".
func (r Revision) ParentBranch(forceHotfix bool) string {
	if forceHotfix || r.IsHotfix() {
		return pad(r.year) + separator + pad(r.month) + separator + r.revCount.String()
	}
	return r.CurrentMonth()
}

// MarshalText implements encoding.TextMarshaler so a Revision serializes
// as its dotted string in JSON and YAML.
func (r Revision) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with Parse semantics.
func (r *Revision) UnmarshalText(text []byte) error {
	*r = Parse(string(text))
	return nil
}

// newRevision builds a derived revision by formatting the fields and
// parsing the result, so derived values follow the same rules as literals.
func newRevision(year, month int, revCount, hotfix Count) Revision {
	return Parse(formatFields(year, month, revCount, hotfix))
}

// formatFields renders the four fields and strips absent trailing fields
// from right to left. An absent field followed by a present one renders
// as an empty field.
func formatFields(year, month int, revCount, hotfix Count) string {
	fields := []string{pad(year), pad(month)}
	switch {
	case hotfix.IsSet():
		fields = append(fields, revCount.String(), hotfix.String())
	case revCount.IsSet():
		fields = append(fields, revCount.String())
	}
	return strings.Join(fields, separator)
}

// pad zero-pads n to two digits.
func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// splitFields splits s on dots, keeps at most maxFields fields and drops
// trailing empty fields. An empty string has no fields.
func splitFields(s string) []string {
	fields := strings.Split(s, separator)
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) > maxFields {
		fields = fields[:maxFields]
	}
	return fields
}

// leadingInt reads an optional sign and the leading decimal digits of s,
// after any leading whitespace. A single underscore between two digits is
// skipped, so "1_0" reads as 10 while "1__0" reads as 1. It returns 0 when
// s does not start with a number or the number overflows an int.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")

	var b strings.Builder
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		b.WriteByte(s[i])
		i++
	}

	digits := 0
	for ; i < len(s); i++ {
		c := s[i]
		if isDigit(c) {
			b.WriteByte(c)
			digits++
			continue
		}
		// An underscore counts only when it joins two digits.
		if c == '_' && digits > 0 && i+1 < len(s) && isDigit(s[i+1]) {
			continue
		}
		break
	}
	if digits == 0 {
		return 0
	}

	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
