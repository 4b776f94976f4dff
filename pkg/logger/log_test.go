package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithRequestID_AddsFieldToContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(&buf, "info"))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")

	Info(ctx, "hello", "k", "v")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Unmarshal: %v (%s)", err, buf.String())
	}
	if line["request_id"] != "req-1" || line["user_id"] != "user-1" || line["k"] != "v" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(&buf, "warn"))

	Debug(ctx, "dropped")
	Info(ctx, "dropped too")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %s", buf.String())
	}
	Warn(ctx, "kept")
	if buf.Len() == 0 {
		t.Fatalf("expected warn line")
	}
}
