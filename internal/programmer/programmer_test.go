package programmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundled(t *testing.T) {
	table, err := Bundled()
	require.NoError(t, err)
	assert.NotEmpty(t, table)

	part, ok := table.Part("atmega328p")
	require.True(t, ok)
	assert.Equal(t, "m328p", part)
}

func TestArgs(t *testing.T) {
	table := Table{"atmega328p": "m328p"}

	assert.Equal(t, "-p m328p -c dragon_isp", table.Args("atmega328p", ""))
	assert.Equal(t, "-p m328p -c usbasp", table.Args("atmega328p", "usbasp"))
	assert.Equal(t, "", table.Args("attiny9000", ""))
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := parse([]byte(`{"attiny85": "t85"}`))
		require.NoError(t, err)
		assert.Equal(t, Table{"attiny85": "t85"}, table)
	})

	t.Run("null", func(t *testing.T) {
		table, err := parse([]byte(`null`))
		require.NoError(t, err)
		assert.NotNil(t, table)
		assert.Equal(t, "", table.Args("attiny85", ""))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parse([]byte(`["attiny85"]`))
		require.Error(t, err)
	})
}
