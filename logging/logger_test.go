package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatEntry(t *testing.T, f *TextFormatter, entry *logrus.Entry) string {
	t.Helper()
	out, err := f.Format(entry)
	require.NoError(t, err)
	return string(out)
}

func TestTextFormatterBasic(t *testing.T) {
	f := &TextFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{},
	}

	out := formatEntry(t, f, entry)
	assert.True(t, strings.HasPrefix(out, "2025-03-01 12:30:00 [INFO]"), out)
	assert.Contains(t, out, "hello")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTextFormatterWarnIsShortened(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.WarnLevel,
		Message: "careful",
		Data:    logrus.Fields{},
	}

	out := formatEntry(t, f, entry)
	assert.Contains(t, out, "[WARN]")
	assert.NotContains(t, out, "WARNING")
}

func TestTextFormatterFields(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.DebugLevel,
		Message: "query complete",
		Data:    logrus.Fields{"component": "engine", "rows": 3},
	}

	out := formatEntry(t, f, entry)
	assert.Contains(t, out, "rows=3")
	// The component field is suppressed, not printed as a plain field.
	assert.NotContains(t, out, "component=engine")
}

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")
	assert.Same(t, a, b)

	c := NewLogger("other-component")
	assert.NotSame(t, a, c)
	assert.Equal(t, "other-component", c.Data["component"])
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("QUILL_LOG_LEVEL", "debug")

	entry := NewLogger("env-level-component")
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}
