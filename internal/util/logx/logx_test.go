package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersRingAndSink(t *testing.T) {
	Reset()
	var out bytes.Buffer
	SetOutput(&out)
	defer SetOutput(nil)
	SetLevel(Warn)
	defer SetLevel(Info)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	lines := Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[0], "shown 2") {
		t.Fatalf("ring: %v", lines)
	}
	var ev map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &ev); err != nil {
		t.Fatalf("sink output not one json event: %q", out.String())
	}
	if ev["level"] != "warn" || ev["message"] != "shown 2" {
		t.Fatalf("event: %v", ev)
	}
}

func TestRingDropsOldest(t *testing.T) {
	Reset()
	SetLevel(Debug)
	defer SetLevel(Info)
	for i := 0; i < maxLines+10; i++ {
		Debugf("line %d", i)
	}
	lines := Lines()
	if len(lines) != maxLines {
		t.Fatalf("len: %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "line 10") {
		t.Fatalf("oldest kept: %s", lines[0])
	}
}
