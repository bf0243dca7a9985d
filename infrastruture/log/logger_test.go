package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("Writes prefix, level and message", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("APP", config.ColorGreen, &buf)
		require.NoError(t, err)

		l.Info("maze created")
		l.Warning("slow step")
		l.Error("bad edge")

		out := buf.String()
		assert.Contains(t, out, config.ColorGreen+"[APP]"+config.ColorReset)
		assert.Contains(t, out, "[INFO]"+config.LogColorReset+" maze created")
		assert.Contains(t, out, "[WARNING]"+config.LogColorReset+" slow step")
		assert.Contains(t, out, "[ERROR]"+config.LogColorReset+" bad edge")

		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], config.LogWarningColor+"[WARNING]")
		assert.Contains(t, lines[2], config.LogErrorColor+"[ERROR]")
	})

	t.Run("Formatter prefixes a timestamp", func(t *testing.T) {
		f := &prefixFormatter{prefix: "[APP]"}
		entry := &logrus.Entry{
			Time:    time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
			Level:   logrus.InfoLevel,
			Message: "ready",
		}

		raw, err := f.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "2026/03/04 05:06:07 [APP] "+config.LogInfoColor+"[INFO]"+config.LogColorReset+" ready\n", string(raw))
	})

	t.Run("Rejects missing prefix or writer", func(t *testing.T) {
		_, err := New(" ", config.ColorBlue, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)

		_, err = New("APP", config.ColorBlue, nil)
		assert.ErrorIs(t, err, ErrNilWriter)
	})

	t.Run("Discard logger is usable", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Discard().Info("nothing")
		})
	})
}
