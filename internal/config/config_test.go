package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePortValid(t *testing.T) {
	port, err := ParsePort("9000")
	assert.NoError(t, err)
	assert.Equal(t, 9000, port)
}

func TestParsePortNonNumeric(t *testing.T) {
	_, err := ParsePort("notaport")
	assert.Error(t, err)
}

func TestParsePortOutOfRange(t *testing.T) {
	_, err := ParsePort("70000")
	assert.Error(t, err)
	_, err = ParsePort("0")
	assert.Error(t, err)
}
