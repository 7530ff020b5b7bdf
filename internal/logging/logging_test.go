package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolayk812/generic-cart/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.New(&buf, "warn", "json")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.WithField("cart_id", "c1").Info("hidden")
	logger.WithField("cart_id", "c1").Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "c1", entry["cart_id"])
}

func TestNew_Errors(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = logging.New(&bytes.Buffer{}, "info", "xml")
	assert.EqualError(t, err, `unsupported log format "xml"`)
}
