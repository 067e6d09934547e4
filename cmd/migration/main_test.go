package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1771776034")
	require.NoError(t, err)
	assert.Equal(t, 1771776034, v)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("1771776035")
	require.NoError(t, err)
	assert.Equal(t, uint(1771776035), target)

	_, err = parseTarget("-2")
	assert.Error(t, err)
}
