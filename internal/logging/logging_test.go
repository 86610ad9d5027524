package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(config.LogConfig{Level: "WARN", Format: "console"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}
