package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"aurachat/backend/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithOutput(&buf, "debug", "json")

	l.WithField("user_id", "u1").Info("joined")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "joined", entry["msg"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNewWithOutput_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithOutput(&buf, "loud", "text")

	l.Debug("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
