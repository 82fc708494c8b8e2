package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yesoreyeram/osai/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name: "debug level",
			config: Config{
				Level:  "debug",
				Output: &bytes.Buffer{},
			},
		},
		{
			name: "pretty output",
			config: Config{
				Level:  "info",
				Output: &bytes.Buffer{},
				Pretty: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if logger := New(tt.config); logger == nil {
				t.Fatal("New returned nil")
			}
		})
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Output: &buf})

	logger.WithGraphID("g-1").
		WithScheduleID("s-1").
		WithNodeID(types.NodeID{Idx: 3, Gen: 1}).
		Info("schedule installed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["graph_id"] != "g-1" {
		t.Errorf("graph_id = %v", entry["graph_id"])
	}
	if entry["schedule_id"] != "s-1" {
		t.Errorf("schedule_id = %v", entry["schedule_id"])
	}
	if entry["node_id"] != "node(3v1)" {
		t.Errorf("node_id = %v", entry["node_id"])
	}
	if entry["msg"] != "schedule installed" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn message should be logged")
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "bogus", Output: &buf})

	logger.Debug("hidden")
	logger.Info("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug should be filtered when level parsing falls back to info")
	}
}
