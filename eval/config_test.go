package eval

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigHasConservativeDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Casual, cfg.Mode)
	assert.True(t, cfg.RegionsEnabled)
	assert.Equal(t, os.Stdout, cfg.Stdout)
	assert.Equal(t, int64(1<<20), cfg.GCThresholdBytes)
}
