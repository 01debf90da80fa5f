package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	var zero Count
	assert.False(t, zero.IsSet())
	assert.Equal(t, None(), zero)
	assert.Equal(t, "", zero.String())

	n, ok := Some(0).Get()
	assert.True(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, "0", Some(0).String())

	assert.Equal(t, Some(1), None().Next())
	assert.Equal(t, Some(4), Some(3).Next())
}

// TestCount_Signed verifies a negative count is kept as parsed and still
// advances by one.
func TestCount_Signed(t *testing.T) {
	c := Parse("24.03.-1").RevCount()
	assert.Equal(t, Some(-1), c)
	assert.Equal(t, "-1", c.String())
	assert.Equal(t, Some(0), c.Next())
}
