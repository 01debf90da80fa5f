package revision

import "strconv"

// Count is an optional counter. The zero value is absent, which is
// distinct from a present count of 0. Counts parsed from text are normally
// positive, but a signed field such as "-1" passes through unchanged.
type Count struct {
	n  int
	ok bool
}

// Some returns a present Count holding n.
func Some(n int) Count {
	return Count{n: n, ok: true}
}

// None returns an absent Count.
func None() Count {
	return Count{}
}

// Get returns the counter value and whether it is present.
func (c Count) Get() (int, bool) {
	return c.n, c.ok
}

// IsSet reports whether the counter is present.
func (c Count) IsSet() bool {
	return c.ok
}

// Next returns the following counter value: 1 when absent, otherwise n+1.
func (c Count) Next() Count {
	if !c.ok {
		return Some(1)
	}
	return Some(c.n + 1)
}

// String renders a present count as a decimal number and an absent count
// as the empty string.
func (c Count) String() string {
	if !c.ok {
		return ""
	}
	return strconv.Itoa(c.n)
}
