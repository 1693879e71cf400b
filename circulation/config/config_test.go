package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// Options carry defaults envconfig has no tag for, so they must
// survive Process when the env var is unset.
func TestNewConfig_OptionsSurviveEnvconfig(t *testing.T) {
	_ = os.Unsetenv("HTTP_WRITE_TIMEOUT")
	_ = os.Unsetenv("LOG_LEVEL")

	cfg := NewConfig(
		WithLogLevel(zapcore.WarnLevel),
		WithWriteTimeout(time.Minute),
	)

	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, zapcore.WarnLevel, cfg.Log.LogLevel)
}
