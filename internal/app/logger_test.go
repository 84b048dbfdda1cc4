package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		logger := NewLogger(env)
		assert.NotNil(t, logger, env)
		assert.Equal(t, "studio_scheduler", logger.Name(), env)
	}
}
