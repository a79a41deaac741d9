package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsArePrefixed(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Log("hello")
	l.Warnf("count %d out of range", 400)
	l.Errorf("load: %s", "boom")

	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "] hello")
	assert.NotContains(t, lines[0], "INFO")
	assert.Contains(t, lines[1], "WARN count 400 out of range")
	assert.Contains(t, lines[2], "ERROR load: boom")
	assert.Contains(t, buf.String(), "ERROR load: boom")
}

func TestFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "out.txt")
	l := New(path)
	l.Log("one")
	l.Log("two")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "] one\n")
	assert.Contains(t, string(data), "] two\n")
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	l.Log("ignored")
	l.Errorf("ignored %d", 1)
	assert.Nil(t, l.Lines())
}

func TestLinesIsACopy(t *testing.T) {
	l := NewWriter(&bytes.Buffer{})
	l.Log("a")
	lines := l.Lines()
	lines[0] = "changed"
	assert.NotEqual(t, "changed", l.Lines()[0])
}
