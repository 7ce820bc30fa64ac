package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, 4, config.Runtime.Workers)
	assert.Equal(t, 128, config.Runtime.QueueBuffer)
}

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte("runtime:\n  workers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, config.Runtime.Workers)
	// Unset fields inherit the defaults.
	assert.Equal(t, 128, config.Runtime.QueueBuffer)
}

func TestParseConfigRejections(t *testing.T) {
	_, err := ParseConfig([]byte("runtime: ["))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("runtime:\n  workers: -1\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("runtime:\n  queueBuffer: 0\n"))
	assert.Error(t, err)
}
