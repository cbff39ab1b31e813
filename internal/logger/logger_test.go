package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formatter(t *testing.T) {
	dev := New("topup", "development", "debug")
	_, isText := dev.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())

	prod := New("topup", "production", "warn")
	_, isJSON := prod.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
	assert.Equal(t, logrus.WarnLevel, prod.GetLevel())
}

func TestNew_UnknownLevel(t *testing.T) {
	log := New("topup", "production", "loud")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	LogError(log, "debit failed", errors.New("boom"), logrus.Fields{"user_id": "u1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debit failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "u1", entry["user_id"])
}
