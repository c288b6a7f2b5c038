package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/pkg/logger"
)

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("warn", &buf)

	l.Debug("debug", nil)
	l.Info("info", nil)
	l.Warn("carrinho expirado", map[string]interface{}{"guest_id": "g1"})
	l.Error("falha", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "g1", entry.Fields["guest_id"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "boom", entry.Error)
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("verbose", &buf)

	l.Debug("oculto", nil)
	l.Info("visível", nil)

	out := buf.String()
	assert.NotContains(t, out, "oculto")
	assert.Contains(t, out, "visível")
}

func TestLogger_LevelIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("DEBUG", &buf)

	l.Debug("detalhe", nil)

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestLogger_UnserializableFieldsKeepMessage(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("info", &buf)

	l.Info("com canal", map[string]interface{}{"ch": make(chan int)})

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "com canal", entry.Message)
	assert.Contains(t, entry.Fields, "fields_error")
}
