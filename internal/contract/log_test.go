package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWarn(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core).Sugar())

	LogWarn("Prefix unresolved", errors.New("no tracked file matched"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "Prefix unresolved: no tracked file matched", entries[0].Message)
	}
}

func TestInitLoggerLevels(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	InitLogger(false)
	assert.False(t, Logger().Desugar().Core().Enabled(zapcore.DebugLevel))

	InitLogger(true)
	assert.True(t, Logger().Desugar().Core().Enabled(zapcore.DebugLevel))
}
