package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yatube/yatube/pkg/config"
)

func newTestLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "timestamp",
		LevelKey:      "level",
		MessageKey:    "message",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(NewFlatEncoder(encoderConfig), zapcore.AddSync(buf), zapcore.InfoLevel)
	return zap.New(core)
}

func TestFlatEncoder(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("test message",
		zap.String("key", "value"),
		zap.Int("status", 302),
		zap.Bool("cached", true),
		zap.Duration("latency", 1500*time.Millisecond),
		zap.Error(errors.New("boom")),
	)

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	checks := map[string]interface{}{
		"message": "test message",
		"key":     "value",
		"status":  float64(302),
		"cached":  true,
		"latency": "1.5s",
		"error":   "boom",
	}
	for k, want := range checks {
		if logObj[k] != want {
			t.Errorf("Expected %s=%v, got: %v", k, want, logObj[k])
		}
	}

	if _, ok := logObj["timestamp"]; !ok {
		t.Error("Expected 'timestamp' field in log output")
	}
}

func TestFlatEncoderWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With(zap.String("component", "web"))

	logger.Info("request")

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if logObj["component"] != "web" {
		t.Errorf("Expected component from With, got: %v", logObj["component"])
	}
}

func TestInitLogger(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	for _, cfg := range []config.LoggingConfig{
		{Level: "DEBUG", Format: "text"},
		{Level: "INFO", Format: "json"},
		{Level: "bogus", Format: "json", FlatFormat: true},
	} {
		if err := InitLogger(&cfg); err != nil {
			t.Fatalf("InitLogger(%+v) failed: %v", cfg, err)
		}
		if GetLogger() == nil {
			t.Fatalf("Expected logger after InitLogger(%+v)", cfg)
		}
	}
}
