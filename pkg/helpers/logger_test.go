package helpers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "store failed", errors.New("boom"), logrus.Fields{"request_id": "r1"})
	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"request_id":"r1"`)
	assert.Contains(t, out, `"msg":"store failed"`)
}

func TestLogError_NilLogger(t *testing.T) {
	var logger *logrus.Logger
	assert.NotPanics(t, func() { LogError(logger, "x", errors.New("boom"), nil) })
}
