package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(Options{Level: "DEBUG"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Options{Level: "nonsense"}).GetLevel())
}

func TestWithComponentAddsField(t *testing.T) {
	log := New(Options{Level: "info"})
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithComponent("loader").WithFields(Fields{"rows": 3}).Info("loaded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loader", line["component"])
	assert.Equal(t, "loaded", line["message"])
	assert.EqualValues(t, 3, line["rows"])
}
