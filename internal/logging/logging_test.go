package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	logger, err := InitLogger(false)
	require.NoError(t, err)
	assert.Same(t, Logger, logger)
	assert.False(t, logger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Desugar().Core().Enabled(zap.WarnLevel))

	logger, err = InitLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Desugar().Core().Enabled(zap.DebugLevel))
}
