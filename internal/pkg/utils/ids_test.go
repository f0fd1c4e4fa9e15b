package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsRoundTrip(t *testing.T) {
	assert.Equal(t, "[]", IDsToString(nil))
	assert.Equal(t, []string{}, StringToIDs(""))
	assert.Equal(t, []string{"a", "b"}, StringToIDs(IDsToString([]string{"a", "b"})))
	assert.Equal(t, []string{"a", "b"}, StringToIDs("a,b"))
}

func TestAppendUniqueAndRemove(t *testing.T) {
	ids := AppendUnique([]string{"a"}, "b")
	ids = AppendUnique(ids, "a")
	assert.Equal(t, []string{"a", "b"}, ids)

	assert.Equal(t, []string{"b"}, Remove(ids, "a"))
	assert.Empty(t, Remove([]string{"x"}, "x"))
}
