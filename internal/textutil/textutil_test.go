package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldUpper(t *testing.T) {
	assert.Equal(t, "SELECT", FoldUpper("select"))
	assert.Equal(t, "SELECT", FoldUpper("SeLeCt"))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Fields("  a  b c "))
}

func TestTrimPunct(t *testing.T) {
	assert.Equal(t, "(id INTEGER)", TrimPunct("(id INTEGER);", ";"))
	assert.Equal(t, "id INTEGER", TrimPunct("(id INTEGER)", "()"))
}
