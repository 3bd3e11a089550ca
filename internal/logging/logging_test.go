package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(slog.LevelWarn, &buf)

	log.Info("hidden")
	log.Warn("anomaly", "game_id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "anomaly") || !strings.Contains(out, "game_id=7") {
		t.Errorf("warn record missing: %q", out)
	}
}
