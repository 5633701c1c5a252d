package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyJSONHandler_FieldsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("match", "m1").WithGroup("turn").Debug("decided",
		"action", "move",
		slog.Group("at", "x", 3, "y", 4),
		"err", errors.New("boom"),
	)

	out := buf.String()
	if !strings.HasPrefix(out, "{\n  \"time\": ") {
		t.Fatalf("time is not first:\n%s", out)
	}
	if strings.Index(out, `"level"`) > strings.Index(out, `"msg"`) {
		t.Fatalf("level after msg:\n%s", out)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, out)
	}
	if got["match"] != "m1" || got["level"] != "DEBUG" || got["msg"] != "decided" {
		t.Fatalf("top-level fields: %v", got)
	}
	turn, ok := got["turn"].(map[string]any)
	if !ok {
		t.Fatalf("turn group missing: %v", got)
	}
	at, _ := turn["at"].(map[string]any)
	if turn["action"] != "move" || at["x"] != 3.0 || turn["err"] != "boom" {
		t.Fatalf("turn group: %v", turn)
	}
}

func TestPrettyJSONHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, nil))
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at default level: %s", buf.String())
	}
	log.Info("shown")
	if !strings.Contains(buf.String(), `"shown"`) {
		t.Fatalf("info not logged")
	}
}

func TestNew(t *testing.T) {
	for _, f := range []string{"", "text", "JSON", "pretty"} {
		if _, err := New(&bytes.Buffer{}, f, slog.LevelInfo, false); err != nil {
			t.Errorf("New(%q): %v", f, err)
		}
	}
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo, false); err == nil {
		t.Fatalf("New(xml) succeeded")
	}

	if l, err := ParseLevel("warn"); err != nil || l != slog.LevelWarn {
		t.Fatalf("ParseLevel(warn) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) succeeded")
	}
}
