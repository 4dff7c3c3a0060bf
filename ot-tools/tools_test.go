package main

import (
	"testing"

	"github.com/npillmayer/xtf"
	"github.com/npillmayer/xtf/ot"
	"github.com/stretchr/testify/assert"
)

func TestParseEncoding(t *testing.T) {
	key, err := parseEncoding("3/1")
	assert.NoError(t, err)
	assert.Equal(t, ot.EncodingKey{PlatformID: 3, EncodingID: 1}, key)
	key, err = parseEncoding(" 1/0 ")
	assert.NoError(t, err)
	assert.Equal(t, ot.EncodingKey{PlatformID: 1, EncodingID: 0}, key)
	for _, s := range []string{"", "3", "3/x", "70000/1"} {
		_, err = parseEncoding(s)
		assert.Error(t, err, s)
	}
}

func TestParseLookupOrder(t *testing.T) {
	order, err := parseLookupOrder("registry")
	assert.NoError(t, err)
	assert.Equal(t, xtf.RegistryFirst, order)
	order, err = parseLookupOrder("")
	assert.NoError(t, err)
	assert.Equal(t, xtf.PostTableFirst, order)
	_, err = parseLookupOrder("cmap")
	assert.Error(t, err)
}

func TestSplitCSVSpace(t *testing.T) {
	assert.Equal(t, []string{"A", "space", "period"}, splitCSVSpace("A, space\tperiod"))
}
